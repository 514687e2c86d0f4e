package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// FileBackend persists each key as a JSON file under a directory. Writes
// go through a temp file and an atomic rename so readers never observe a
// partial value.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir, creating the directory
// if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// path maps a key to a file path. Keys are escaped so separators and
// other unsafe characters cannot leave the directory.
func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// GetValue returns the stored bytes for key, or (nil, nil) when absent.
func (f *FileBackend) GetValue(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// SetValue stores data under key, removing the file when data is nil.
func (f *FileBackend) SetValue(_ context.Context, key string, data []byte) error {
	path := f.path(key)

	if data == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %q: %w", key, err)
		}
		return nil
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store %q: %w", key, err)
	}
	return nil
}

var _ Backend = (*FileBackend)(nil)
