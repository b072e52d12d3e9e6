package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCacheMiss is returned by Load when no value exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// FileCache stores each key as a snapshot file inside a directory. It is the
// local, single-profile equivalent of the browser storage the attendance
// collection was originally cached in.
type FileCache struct {
	dir string
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", key, err)
	}
	return data, nil
}

func (c *FileCache) Save(key string, value []byte) error {
	// Write via a temp file so a crash mid-write never leaves a torn snapshot.
	path := c.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace cache %s: %w", key, err)
	}
	return nil
}

func (c *FileCache) path(key string) string {
	// Keys are fixed constants, but keep path traversal out anyway.
	name := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(c.dir, name+".json")
}
