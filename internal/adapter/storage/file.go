// Package storage provides the device-local blob store backing alert
// snapshots. One file per key under a root directory, written atomically.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/field-report-alerts/internal/store"
)

// FileStore implements store.BlobStore on the local filesystem.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Get reads the blob for a key. Returns store.ErrNotFound when absent.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Set writes the blob via a temp file and rename, so a crash mid-write never
// leaves a truncated snapshot behind.
func (f *FileStore) Set(_ context.Context, key string, data []byte) error {
	path := f.path(key)

	tmp, err := os.CreateTemp(f.root, ".blob-*")
	if err != nil {
		return fmt.Errorf("creating temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing blob %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing blob %s: %w", key, err)
	}
	return nil
}

// path flattens the key into a single filename; keys never escape the root.
func (f *FileStore) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key) + ".json"
	return filepath.Join(f.root, name)
}
