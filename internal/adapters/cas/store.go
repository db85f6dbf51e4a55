// Package cas stores job records as content-addressed JSON files.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.JobStore with one file per matrix entry under .stage/store.
// When a mirror is set, every Put is forwarded to it after the local write.
type Store struct {
	mirror ports.JobStore
}

// NewStore creates a new Store. A nil mirror disables mirroring.
func NewStore(mirror ports.JobStore) *Store {
	return &Store{mirror: mirror}
}

// Get retrieves the latest local record of an entry.
func (s *Store) Get(root, entry string) (*domain.JobRecord, error) {
	filename := s.getFilename(root, entry)
	data, err := os.ReadFile(filename) //nolint:gosec // path is built from the root and a hashed name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(domain.ErrStoreReadFailed, err)
	}

	var rec domain.JobRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreUnmarshalFailed, err), "entry", entry)
	}
	return &rec, nil
}

// Put stores the record locally and then in the mirror.
// A mirror failure is returned after the local write has succeeded.
func (s *Store) Put(root string, rec domain.JobRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrStoreMarshalFailed, err)
	}

	filename := s.getFilename(root, rec.Entry)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}

	tmp, err := os.CreateTemp(dir, ".record-*.json")
	if err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}

	if s.mirror != nil {
		if err := s.mirror.Put(root, rec); err != nil {
			return zerr.With(err, "sink", "mirror")
		}
	}
	return nil
}

func (s *Store) getFilename(root, entry string) string {
	hash := sha256.Sum256([]byte(entry))
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	return filepath.Join(storeDir, hex.EncodeToString(hash[:])+".json")
}
