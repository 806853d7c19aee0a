package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage stores listing images in a directory on the local disk.
// It is the default backend for development and tests.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Upload writes the bytes under a fresh uuid-based file name, keeping the
// original extension, and returns the file name as the reference.
func (s *LocalStorage) Upload(_ context.Context, originalFileName string, data []byte) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalFileName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload %s: %w", path, err)
	}
	return name, nil
}
