package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore writes binary objects under a key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// FileSystem is an ObjectStore backed by a local directory, used by the
// dev server and CLI in place of S3. Objects live at {baseDir}/{key}.
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a FileSystem store, ensuring the base directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating object directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// ObjectPath returns the filesystem path for key. Keys that would escape
// the base directory are rejected.
func (fs *FileSystem) ObjectPath(key string) (string, error) {
	path := filepath.Join(fs.baseDir, filepath.FromSlash(key))
	rel, err := filepath.Rel(fs.baseDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return path, nil
}

// Put writes data under key, replacing any existing object. The content
// type is not recorded on disk.
func (fs *FileSystem) Put(_ context.Context, key string, data []byte, _ string) error {
	path, err := fs.ObjectPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing object %s: %w", key, err)
	}
	return nil
}

// Read returns the bytes stored under key.
func (fs *FileSystem) Read(key string) ([]byte, error) {
	path, err := fs.ObjectPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return data, nil
}

// Exists checks if an object is stored under key.
func (fs *FileSystem) Exists(key string) bool {
	path, err := fs.ObjectPath(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
