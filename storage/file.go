package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fileBackend stores the snapshot blob as a single flat file, writing every
// Save through a uniquely named staging file that is renamed into place
// atomically so a crash mid-write never corrupts the last good snapshot.
type fileBackend struct {
	path string
}

// NewFile returns a Backend that persists to a plain file at path, the
// lightweight alternative to NewBolt for callers (cmd/kvctl) that don't
// need bbolt's page-transaction machinery for a single opaque blob.
func NewFile(path string) Backend {
	return &fileBackend{path: path}
}

func (b *fileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (b *fileBackend) Save(data []byte) error {
	dir := filepath.Dir(b.path)
	staging := filepath.Join(dir, fmt.Sprintf("kv-snapshot-%s.tmp", uuid.NewString()))

	if err := os.WriteFile(staging, data, 0o644); err != nil {
		return fmt.Errorf("storage: writing staging file %s: %w", staging, err)
	}
	if err := os.Rename(staging, b.path); err != nil {
		os.Remove(staging)
		return fmt.Errorf("storage: renaming %s into place: %w", staging, err)
	}
	return nil
}

func (b *fileBackend) Close() error { return nil }
