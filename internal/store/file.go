// internal/store/file.go
//
// File-backed cache.Store: one encoded table per vocabulary fingerprint,
// written as <dir>/<key>.wpat.

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
)

const fileExt = ".wpat"

// FileCache stores tables under a directory.
type FileCache struct {
	dir string
}

// NewFileCache returns a FileCache rooted at dir, creating it if missing.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

func (f *FileCache) path(key string) string { return filepath.Join(f.dir, key+fileExt) }

// Load implements cache.Store.
func (f *FileCache) Load(_ context.Context, key string) (*cache.Table, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var t cache.Table
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save implements cache.Store. The file is replaced atomically.
func (f *FileCache) Save(_ context.Context, key string, t *cache.Table) error {
	b, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}
