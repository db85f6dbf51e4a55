package domain

import (
	"net/url"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// ArchiveFormat identifies how a fixture archive is packed.
type ArchiveFormat string

const (
	// ArchiveTar is an uncompressed tarball.
	ArchiveTar ArchiveFormat = "tar"
	// ArchiveTarGz is a gzip-compressed tarball.
	ArchiveTarGz ArchiveFormat = "tar.gz"
	// ArchiveTarBz2 is a bzip2-compressed tarball.
	ArchiveTarBz2 ArchiveFormat = "tar.bz2"
	// ArchiveTarZst is a zstd-compressed tarball.
	ArchiveTarZst ArchiveFormat = "tar.zst"
	// ArchiveZip is a zip archive.
	ArchiveZip ArchiveFormat = "zip"
)

var archiveSuffixes = []struct {
	suffix string
	format ArchiveFormat
}{
	{".tar.gz", ArchiveTarGz},
	{".tgz", ArchiveTarGz},
	{".tar.bz2", ArchiveTarBz2},
	{".tbz2", ArchiveTarBz2},
	{".tar.zst", ArchiveTarZst},
	{".tzst", ArchiveTarZst},
	{".tar", ArchiveTar},
	{".zip", ArchiveZip},
}

// DetectArchiveFormat derives the archive format from a file name or URL path.
func DetectArchiveFormat(name string) (ArchiveFormat, error) {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, nil
		}
	}
	return "", zerr.With(zerr.Wrap(ErrUnsupportedArchive, "unknown suffix"), "name", name)
}

// FixtureArchive is a remote archive of test data that must be present before tests run.
type FixtureArchive struct {
	// Name identifies the fixture in logs and job records.
	Name string

	// URL locates the archive. Supported schemes are http, https, s3 and file.
	URL string

	// Dir is the directory, relative to the fixture root, the archive is extracted into.
	Dir string

	// SHA256 is the expected hex digest of the archive. Empty skips verification.
	SHA256 string
}

// Scheme returns the lower-cased URL scheme of the archive.
func (f FixtureArchive) Scheme() string {
	u, err := url.Parse(f.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// FileName returns the base name of the archive as it appears in the URL path.
func (f FixtureArchive) FileName() string {
	u, err := url.Parse(f.URL)
	if err != nil || u.Path == "" {
		return path.Base(f.URL)
	}
	return path.Base(u.Path)
}

// Format returns the archive format detected from the URL.
func (f FixtureArchive) Format() (ArchiveFormat, error) {
	format, err := DetectArchiveFormat(f.FileName())
	if err != nil {
		return "", zerr.With(err, "fixture", f.Name)
	}
	return format, nil
}

// Validate checks that the fixture is addressable and extractable.
func (f FixtureArchive) Validate() error {
	if f.Name == "" {
		return zerr.Wrap(ErrInvalidProject, "fixture name is required")
	}
	if f.Dir == "" && !IsPathElement(f.Name) {
		err := zerr.Wrap(ErrInvalidProject, "fixture name must be a plain directory name unless dir is set")
		return zerr.With(err, "fixture", f.Name)
	}
	switch f.Scheme() {
	case "http", "https", "s3", "file":
	default:
		err := zerr.With(zerr.Wrap(ErrUnsupportedScheme, "fixture url"), "fixture", f.Name)
		return zerr.With(err, "url", f.URL)
	}
	if _, err := f.Format(); err != nil {
		return err
	}
	if f.Dir != "" && (path.IsAbs(f.Dir) || strings.HasPrefix(path.Clean(f.Dir), "..")) {
		err := zerr.Wrap(ErrInvalidProject, "fixture dir must stay inside the fixture root")
		return zerr.With(err, "fixture", f.Name)
	}
	return nil
}

// ValidateFixtures checks every fixture and that no two of them extract into the same
// or nested directories. Extraction replaces its directory, so overlaps lose data.
func ValidateFixtures(fixtures []FixtureArchive) error {
	for i, f := range fixtures {
		if err := f.Validate(); err != nil {
			return err
		}
		for _, prev := range fixtures[:i] {
			if dirsOverlap(prev.ExtractDir(), f.ExtractDir()) {
				err := zerr.Wrap(ErrInvalidProject, "fixtures extract into overlapping directories")
				return zerr.With(zerr.With(err, "fixture", f.Name), "other", prev.Name)
			}
		}
	}
	return nil
}

func dirsOverlap(a, b string) bool {
	if a == "." || b == "." || a == b {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// ExtractDir returns the directory, relative to the fixture root, the archive lands in.
// It defaults to the fixture name.
func (f FixtureArchive) ExtractDir() string {
	if f.Dir == "" {
		return f.Name
	}
	return path.Clean(f.Dir)
}

// FixtureSet describes the files an extraction produced.
type FixtureSet struct {
	// Root is the absolute directory the archive was extracted into.
	Root string `json:"root"`

	// Files are the extracted regular files relative to Root, sorted.
	Files []string `json:"files"`

	// Fingerprint is a content hash over Files, stable across re-extractions.
	Fingerprint string `json:"fingerprint"`
}
