package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/view"

	"github.com/google/uuid"
)

// DefaultKey is the KV key holding the serialized collection.
const DefaultKey = "todo-tasks"

// Store owns the canonical task collection and keeps the KV copy in sync with it.
// Every mutating call writes the full collection before returning; a failed
// write flips StorageStatus to degraded but never fails the call.
type Store struct {
	mu sync.Mutex

	kv     store.KV
	key    string
	logger *log.Logger
	now    func() time.Time
	newID  func() (model.TaskID, error)
	view   view.Projector

	tasks   []model.Task
	status  model.StorageStatus
	lastErr error
}

type Option func(*Store)

// WithKey overrides the KV key (default "todo-tasks").
func WithKey(key string) Option {
	return func(s *Store) {
		if k := strings.TrimSpace(key); k != "" {
			s.key = k
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDFunc(f func() (model.TaskID, error)) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

func WithProjector(p view.Projector) Option {
	return func(s *Store) { s.view = p }
}

// New returns an empty store bound to kv without reading it. Most callers want Open.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: log.New(io.Discard, "", 0),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newUUID,
		tasks:  []model.Task{},
		status: model.StorageOK,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open builds a store and loads the persisted collection.
func Open(ctx context.Context, kv store.KV, opts ...Option) (*Store, LoadReport) {
	s := New(kv, opts...)
	rep := s.Load(ctx)
	return s, rep
}

func newUUID() (model.TaskID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return model.TaskID(u.String()), nil
}

// Key returns the KV key this store reads and writes.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory collection with the persisted one. Anything
// unreadable yields an empty collection; the reason is logged and reported,
// never returned as an error.
func (s *Store) Load(ctx context.Context) LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, rep := inspect(ctx, s.kv, s.key)
	if rep.State == LoadCorrupt {
		s.logger.Printf("failed to load tasks from storage (key %q): %s", s.key, rep.Reason)
	}
	if ts == nil {
		ts = []model.Task{}
	}
	s.tasks = ts
	return rep
}

// Add appends a new task. Whitespace-only text is rejected with ErrEmptyText.
func (s *Store) Add(ctx context.Context, text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshIDLocked()
	if err != nil {
		return model.Task{}, fmt.Errorf("new task id: %w", err)
	}
	t := model.Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, t)
	s.persistLocked(ctx)
	return t, nil
}

func (s *Store) freshIDLocked() (model.TaskID, error) {
	for i := 0; i < 8; i++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(id)) == "" {
			continue
		}
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique id")
}

// Remove deletes the task with the given id and reports whether one existed.
func (s *Store) Remove(ctx context.Context, id model.TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	if i := s.indexLocked(id); i >= 0 {
		next := make([]model.Task, 0, len(s.tasks)-1)
		next = append(next, s.tasks[:i]...)
		next = append(next, s.tasks[i+1:]...)
		s.tasks = next
		found = true
	}
	s.persistLocked(ctx)
	return found
}

// ToggleCompleted flips the completed flag of the task with the given id.
func (s *Store) ToggleCompleted(ctx context.Context, id model.TaskID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		out   model.Task
		found bool
	)
	if i := s.indexLocked(id); i >= 0 {
		next := make([]model.Task, len(s.tasks))
		copy(next, s.tasks)
		next[i] = next[i].Toggled()
		s.tasks = next
		out, found = next[i], true
	}
	s.persistLocked(ctx)
	return out, found
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(s.tasks) - len(next)
	s.tasks = next
	s.persistLocked(ctx)
	return removed
}

func (s *Store) indexLocked(id model.TaskID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection. Write failures only change the
// storage status; the in-memory collection stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	b, err := Encode(s.tasks)
	if err == nil {
		err = s.kv.Set(ctx, s.key, b)
	}
	if err != nil {
		if s.status != model.StorageDegraded {
			s.logger.Printf("failed to save tasks: %v", err)
		}
		s.status = model.StorageDegraded
		s.lastErr = err
		return
	}
	s.status = model.StorageOK
	s.lastErr = nil
}

// Tasks returns a copy of the collection in canonical order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) Get(id model.TaskID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) StorageStatus() model.StorageStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the error from the most recent failed write, or nil once
// a write has succeeded again.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// View projects the current collection through filter and sort.
func (s *Store) View(filter view.Filter, sort view.Sort) view.View {
	return s.view.Project(s.Tasks(), filter, sort)
}
