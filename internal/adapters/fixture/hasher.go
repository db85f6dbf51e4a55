package fixture

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/zerr"
)

// Hasher fingerprints extracted fixture trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// FileSet lists the files under root and fingerprints their names and contents.
// Two trees with the same relative paths and bytes share a fingerprint wherever they live.
func (h *Hasher) FileSet(root string) (domain.FixtureSet, error) {
	set := domain.FixtureSet{Root: root, Files: []string{}}
	digest := xxhash.New()

	for rel, err := range h.walker.WalkFiles(root) {
		if err != nil {
			return domain.FixtureSet{}, zerr.With(zerr.Wrap(err, "failed to walk fixture"), "root", root)
		}
		if err := h.hashFile(root, rel, digest); err != nil {
			return domain.FixtureSet{}, err
		}
		set.Files = append(set.Files, rel)
	}

	set.Fingerprint = fmt.Sprintf("%016x", digest.Sum64())
	return set, nil
}

func (h *Hasher) hashFile(root, rel string, digest io.Writer) error {
	_, _ = digest.Write([]byte(rel))
	_, _ = digest.Write([]byte{0})

	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		link, err := os.Readlink(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read link"), "path", path)
		}
		_, _ = digest.Write([]byte("->" + link))
		_, _ = digest.Write([]byte{0})
		return nil
	}

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
