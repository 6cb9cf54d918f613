package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-cli/internal/model"
)

// CorruptError describes why a persisted payload was rejected.
type CorruptError struct {
	Index  int // -1 when the payload as a whole is bad
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Index < 0 {
		if e.Err != nil {
			return fmt.Sprintf("corrupt task payload: %s: %v", e.Reason, e.Err)
		}
		return "corrupt task payload: " + e.Reason
	}
	return fmt.Sprintf("corrupt task payload: task %d: %s", e.Index, e.Reason)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// wireTask mirrors the persisted record. Fields are raw so that shape checks
// can distinguish "missing" from "wrong type".
type wireTask struct {
	ID        json.RawMessage `json:"id"`
	Text      json.RawMessage `json:"text"`
	Completed json.RawMessage `json:"completed"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// Encode serializes the collection in its canonical order.
func Encode(ts []model.Task) ([]byte, error) {
	if ts == nil {
		ts = []model.Task{}
	}
	return json.Marshal(ts)
}

// Decode parses and validates a persisted collection. It is all-or-nothing:
// either every record is well-formed and the full collection is returned, or
// a *CorruptError is returned and no tasks are.
func Decode(b []byte) ([]model.Task, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, &CorruptError{Index: -1, Reason: "empty payload"}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, &CorruptError{Index: -1, Reason: "not a JSON array", Err: err}
	}

	out := make([]model.Task, 0, len(raw))
	seen := make(map[model.TaskID]bool, len(raw))
	for i, r := range raw {
		t, reason := decodeTask(r)
		if reason != "" {
			return nil, &CorruptError{Index: i, Reason: reason}
		}
		if seen[t.ID] {
			return nil, &CorruptError{Index: i, Reason: "duplicate id " + string(t.ID)}
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

func decodeTask(r json.RawMessage) (model.Task, string) {
	var w wireTask
	if err := json.Unmarshal(r, &w); err != nil {
		return model.Task{}, "not an object"
	}

	var t model.Task
	if isNullOrEmpty(w.ID) {
		return model.Task{}, "missing id"
	}
	if err := json.Unmarshal(w.ID, &t.ID); err != nil || strings.TrimSpace(string(t.ID)) == "" {
		return model.Task{}, "missing id"
	}

	if isNullOrEmpty(w.Text) {
		return model.Task{}, "missing text"
	}
	if err := json.Unmarshal(w.Text, &t.Text); err != nil || t.Text == "" {
		return model.Task{}, "missing text"
	}

	if isNullOrEmpty(w.Completed) {
		return model.Task{}, "completed is not a boolean"
	}
	if err := json.Unmarshal(w.Completed, &t.Completed); err != nil {
		return model.Task{}, "completed is not a boolean"
	}

	t.CreatedAt = parseCreatedAt(w.CreatedAt)
	return t, ""
}

// parseCreatedAt is lenient: an absent or unreadable timestamp loads as the zero time.
func parseCreatedAt(r json.RawMessage) time.Time {
	if isNullOrEmpty(r) {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(r, &s); err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return ts
}

func isNullOrEmpty(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	s := strings.TrimSpace(string(b))
	return s == "" || s == "null"
}

// IsCorrupt reports whether err came from payload validation.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
