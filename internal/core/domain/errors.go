package domain

import "go.trai.ch/zerr"

var (
	// ErrJobFailed is returned when at least one matrix entry did not pass.
	// The CLI maps it to a non-zero exit code without logging it again.
	ErrJobFailed = zerr.New("job failed")

	// ErrConfigNotFound is returned when no stage.yaml exists in the working directory or its parents.
	ErrConfigNotFound = zerr.New("could not find " + StageFileName)

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidProject is returned when the project file parses but violates a constraint.
	ErrInvalidProject = zerr.New("invalid project")

	// ErrInvalidDependency is returned when a dependency record is malformed.
	ErrInvalidDependency = zerr.New("invalid dependency record")

	// ErrInvalidVersion is returned when a version or constraint string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrDuplicateEntry is returned when two matrix entries share a name.
	ErrDuplicateEntry = zerr.New("duplicate matrix entry")

	// ErrEntryNotFound is returned when a requested matrix entry does not exist.
	ErrEntryNotFound = zerr.New("matrix entry not found")

	// ErrNoEntries is returned when the matrix is empty after filtering.
	ErrNoEntries = zerr.New("no matrix entries to run")

	// ErrNoChannels is returned when resolution is attempted without any configured channel.
	ErrNoChannels = zerr.New("no package channels configured")

	// ErrUnsatisfiable is returned when a required dependency has no version at or above its minimum.
	ErrUnsatisfiable = zerr.New("dependency cannot be satisfied")

	// ErrInterpreterUnavailable is returned when no channel publishes the requested interpreter version.
	ErrInterpreterUnavailable = zerr.New("interpreter version not available")

	// ErrChannelLookupFailed is returned when a channel index cannot be queried.
	ErrChannelLookupFailed = zerr.New("channel lookup failed")

	// ErrUnsupportedScheme is returned when a fixture URL uses a scheme with no registered source.
	ErrUnsupportedScheme = zerr.New("unsupported fixture url scheme")

	// ErrUnsupportedArchive is returned when a fixture archive format cannot be detected.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrFixtureDownloadFailed is returned when a fixture archive cannot be downloaded.
	ErrFixtureDownloadFailed = zerr.New("fixture download failed")

	// ErrChecksumMismatch is returned when a downloaded fixture does not match its declared SHA-256.
	ErrChecksumMismatch = zerr.New("fixture checksum mismatch")

	// ErrFixtureExtractFailed is returned when a fixture archive cannot be extracted.
	ErrFixtureExtractFailed = zerr.New("fixture extraction failed")

	// ErrUnsafeArchivePath is returned when an archive member would escape the extraction directory.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes destination")

	// ErrEnvironmentExists is returned when provisioning targets a prefix that already exists.
	ErrEnvironmentExists = zerr.New("environment prefix already exists")

	// ErrProvisionFailed is returned when an environment cannot be created.
	ErrProvisionFailed = zerr.New("environment provisioning failed")

	// ErrInstallFailed is returned when dependency installation fails.
	ErrInstallFailed = zerr.New("dependency installation failed")

	// ErrEnvironmentMissing is returned when a step needs an environment but none was provisioned.
	ErrEnvironmentMissing = zerr.New("environment not provisioned")

	// ErrCommandFailed is returned when a build, test, or coverage command exits non-zero.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when a step has no command configured.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrStepSkipped marks a step that did not run because an earlier fatal step failed.
	ErrStepSkipped = zerr.New("skipped after fatal failure")

	// ErrDuplicateStep is returned when a pipeline declares the same step twice.
	ErrDuplicateStep = zerr.New("duplicate step")

	// ErrStoreReadFailed is returned when a job record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read job record")

	// ErrStoreWriteFailed is returned when a job record cannot be persisted.
	ErrStoreWriteFailed = zerr.New("failed to write job record")

	// ErrStoreUnmarshalFailed is returned when a stored job record is corrupt.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal job record")

	// ErrStoreMarshalFailed is returned when a job record cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal job record")

	// ErrDatabaseConfig is returned when the job database settings are incomplete.
	ErrDatabaseConfig = zerr.New("invalid database configuration")

	// ErrLockfileWriteFailed is returned when the lockfile cannot be written.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrCleanFailed is returned when removing stage state fails.
	ErrCleanFailed = zerr.New("failed to clean")
)
