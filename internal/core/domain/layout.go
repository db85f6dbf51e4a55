package domain

import (
	"path/filepath"
	"regexp"
)

const (
	// StageDirName is the name of the internal workspace directory.
	StageDirName = ".stage"

	// StoreDirName is the name of the job record store directory.
	StoreDirName = "store"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// ChannelsDirName is the name of the channel index cache directory.
	ChannelsDirName = "channels"

	// RunsDirName is the name of the directory holding per-run environments and fixtures.
	RunsDirName = "runs"

	// EnvDirName is the name of an entry's environment prefix inside its run directory.
	EnvDirName = "env"

	// FixturesDirName is the name of an entry's fixture root inside its run directory.
	FixturesDirName = "fixtures"

	// DownloadsDirName is the name of an entry's archive download directory.
	DownloadsDirName = "downloads"

	// StageFileName is the name of the project configuration file.
	StageFileName = "stage.yaml"

	// LockFileName is the name of the resolved-pins lockfile.
	LockFileName = "stage.lock.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// EncodingVariable is the environment variable forcing the interpreter's I/O encoding.
	EncodingVariable = "PYTHONIOENCODING"

	// FixturesVariable is the environment variable holding an entry's fixture root.
	FixturesVariable = "STAGE_FIXTURES"

	// DefaultEncoding is the value of EncodingVariable unless the project overrides it.
	DefaultEncoding = "utf-8"

	// DefaultInterpreterPackage is the package name the interpreter is published under.
	DefaultInterpreterPackage = "python"
)

// DefaultStagePath returns the default root directory for stage metadata.
func DefaultStagePath() string {
	return StageDirName
}

// DefaultStorePath returns the default path for the job record store.
// It joins .stage and store.
func DefaultStorePath() string {
	return filepath.Join(DefaultStagePath(), StoreDirName)
}

// DefaultChannelCachePath returns the default path for the channel index cache.
// It joins .stage, cache, and channels.
func DefaultChannelCachePath() string {
	return filepath.Join(DefaultStagePath(), CacheDirName, ChannelsDirName)
}

// DefaultRunsPath returns the default path for per-run working directories.
func DefaultRunsPath() string {
	return filepath.Join(DefaultStagePath(), RunsDirName)
}

// EntryWorkDir returns the isolated working directory of one matrix entry within a run.
func EntryWorkDir(root, runID, entry string) string {
	return filepath.Join(root, DefaultRunsPath(), runID, entry)
}

var pathElementRegex = regexp.MustCompile("^[a-zA-Z0-9_.-]+$")

// IsPathElement reports whether name can be used as one directory name below a stage
// directory: project, entry and default fixture names all end up as such.
func IsPathElement(name string) bool {
	return name != "." && name != ".." && pathElementRegex.MatchString(name)
}
