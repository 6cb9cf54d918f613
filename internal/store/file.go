package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const fileKVExt = ".json"

// FileKV stores each key as its own file under Dir.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	dir = filepath.Clean(dir)
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}
	return &FileKV{Dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileKV) Path(key string) string {
	// Escape so keys can never walk out of Dir.
	return filepath.Join(s.Dir, url.PathEscape(strings.TrimSpace(key))+fileKVExt)
}

func (s *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("file storage: empty key")
	}
	return WriteFileAtomic(s.Path(key), value)
}

func (s *FileKV) Close() error { return nil }
