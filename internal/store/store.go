package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable is returned when the backing storage cannot be reached at all.
var ErrUnavailable = errors.New("storage unavailable")

// KV is the persistence boundary: a flat key -> bytes map where every Set
// replaces the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendSQLite, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend: %s (want file|sqlite|memory)", s)
	}
}

type Options struct {
	Backend Backend
	Dir     string

	// QuotaBytes caps the size of a single value; 0 disables the check.
	QuotaBytes int64
}

// Open returns the KV described by opts, wrapped with a quota when configured.
func Open(ctx context.Context, opts Options) (KV, error) {
	backend, err := ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}

	var kv KV
	switch backend {
	case BackendMemory:
		kv = NewMemoryKV()
	case BackendFile:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, errors.New("file storage: missing dir")
		}
		kv, err = NewFileKV(opts.Dir)
	case BackendSQLite:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, errors.New("sqlite storage: missing dir")
		}
		kv, err = OpenSQLiteKV(ctx, filepath.Join(opts.Dir, sqliteFileName))
	}
	if err != nil {
		return nil, err
	}
	if opts.QuotaBytes > 0 {
		kv = WithQuota(kv, opts.QuotaBytes)
	}
	return kv, nil
}

// Location describes where a backend keeps its data, for status output.
func Location(opts Options) string {
	switch opts.Backend {
	case BackendMemory:
		return "memory"
	case BackendSQLite:
		return filepath.Join(opts.Dir, sqliteFileName)
	default:
		return filepath.Clean(opts.Dir)
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
