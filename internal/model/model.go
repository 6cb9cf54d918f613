package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// TaskID identifies a task. IDs written by this tool are UUIDs; payloads
// exported from the browser widget carry numeric ids, which are kept as their
// decimal representation.
type TaskID string

func (id TaskID) String() string { return string(id) }

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("task id must be a string or number")
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	if f == 0 {
		// 0 is falsy; treat like a missing id.
		*id = ""
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*id = TaskID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = TaskID(strings.TrimSpace(n.String()))
	return nil
}

type Task struct {
	ID        TaskID    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// StorageStatus reports whether the last write to the persistent store succeeded.
type StorageStatus string

const (
	StorageOK       StorageStatus = "ok"
	StorageDegraded StorageStatus = "degraded"
)
