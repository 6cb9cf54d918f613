package tasks

import (
	"context"
	"errors"
	"fmt"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
)

type LoadState string

const (
	LoadAbsent  LoadState = "absent"
	LoadOK      LoadState = "ok"
	LoadCorrupt LoadState = "corrupt"
)

// LoadReport describes what Load found under the store key.
type LoadReport struct {
	Key    string    `json:"key"`
	State  LoadState `json:"state"`
	Tasks  int       `json:"tasks"`
	Bytes  int       `json:"bytes"`
	Reason string    `json:"reason,omitempty"`
}

// Inspect reads and validates the persisted collection without touching any
// Store. It backs the doctor command.
func Inspect(ctx context.Context, kv store.KV, key string) LoadReport {
	_, rep := inspect(ctx, kv, key)
	return rep
}

func inspect(ctx context.Context, kv store.KV, key string) ([]model.Task, LoadReport) {
	rep := LoadReport{Key: key}
	b, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rep.State = LoadAbsent
			return nil, rep
		}
		rep.State = LoadCorrupt
		rep.Reason = fmt.Sprintf("read: %v", err)
		return nil, rep
	}
	rep.Bytes = len(b)
	ts, err := Decode(b)
	if err != nil {
		rep.State = LoadCorrupt
		rep.Reason = err.Error()
		return nil, rep
	}
	rep.State = LoadOK
	rep.Tasks = len(ts)
	return ts, rep
}

// Export returns the persisted payload re-encoded in canonical form. A corrupt
// payload is an error here: exporting it would hide the corruption.
func Export(ctx context.Context, kv store.KV, key string) ([]byte, error) {
	b, err := kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return Encode(nil)
	}
	if err != nil {
		return nil, err
	}
	ts, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return Encode(ts)
}

// Import validates payload with the same all-or-nothing rules as Load and, if
// it passes, replaces the persisted collection. Running stores pick it up on
// their next Load.
func Import(ctx context.Context, kv store.KV, key string, payload []byte) (int, error) {
	ts, err := Decode(payload)
	if err != nil {
		return 0, err
	}
	b, err := Encode(ts)
	if err != nil {
		return 0, err
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return len(ts), nil
}
