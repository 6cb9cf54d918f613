package store

import (
	"context"
	"encoding/json"
	"errors"
)

// TUIStateKey is the KV key holding the last TUI screen state.
const TUIStateKey = "todo-tui-state"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// It is intentionally "best effort": callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Filter is one of: all|active|completed
	Filter string `json:"filter,omitempty"`

	// Sort is one of: default|date-asc|date-desc|name-asc|name-desc
	Sort string `json:"sort,omitempty"`

	SelectedID string `json:"selectedId,omitempty"`
}

func LoadTUIState(ctx context.Context, kv KV) (*TUIState, error) {
	if kv == nil {
		return &TUIState{Version: 1}, nil
	}
	b, err := kv.Get(ctx, TUIStateKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(ctx context.Context, kv KV, st *TUIState) error {
	if st == nil || kv == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return kv.Set(ctx, TUIStateKey, b)
}
