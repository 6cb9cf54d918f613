package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/tasks"
	"todo-cli/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (appModel, *tasks.Store, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s := tasks.New(kv, tasks.WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}))
	return newAppModel(context.Background(), Options{Store: s, KV: kv}), s, kv
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func addVia(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	m = send(t, m, runes("a"))
	if m.focus != focusInput {
		t.Fatalf("expected input focus after 'a'")
	}
	m = send(t, m, runes(text), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	return m
}

func TestApp_AddToggleDelete(t *testing.T) {
	m, s, _ := newTestModel(t)

	m = addVia(t, m, "buy milk")
	m = addVia(t, m, "walk dog")
	if s.Len() != 2 {
		t.Fatalf("expected 2 tasks; got %d", s.Len())
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared after add; got %q", m.input.Value())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	got := s.Tasks()
	if !got[0].Completed || got[1].Completed {
		t.Fatalf("expected only first task completed; got %+v", got)
	}

	m = send(t, m, runes("d"))
	got = s.Tasks()
	if len(got) != 1 || got[0].Text != "walk dog" {
		t.Fatalf("expected only walk dog left; got %+v", got)
	}
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped to 0; got %d", m.cursor)
	}
}

func TestApp_EmptyAddFlashesAndDoesNotWrite(t *testing.T) {
	m, s, kv := newTestModel(t)
	m = send(t, m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if s.Len() != 0 {
		t.Fatalf("expected no task added")
	}
	if kv.Writes() != 0 {
		t.Fatalf("expected no writes; got %d", kv.Writes())
	}
	if !strings.Contains(m.View(), "Task cannot be empty!") {
		t.Fatalf("expected flash in view; got:\n%s", m.View())
	}

	// A stale flash timer must not clear a newer message.
	m = send(t, m, flashDoneMsg{seq: m.flashSeq - 1})
	if m.flash == "" {
		t.Fatalf("expected flash to survive stale timer")
	}
	m = send(t, m, flashDoneMsg{seq: m.flashSeq})
	if m.flash != "" {
		t.Fatalf("expected flash cleared")
	}
}

func TestApp_FilterTabsAndCounts(t *testing.T) {
	m, s, _ := newTestModel(t)
	ctx := context.Background()
	a, _ := s.Add(ctx, "a")
	_, _ = s.Add(ctx, "b")
	s.ToggleCompleted(ctx, a.ID)

	out := m.View()
	for _, want := range []string{"To-Do List", "All (2)", "Active (1)", "Completed (1)", "1 task remaining", "Clear completed (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view; got:\n%s", want, out)
		}
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.filter != view.FilterActive {
		t.Fatalf("expected active filter; got %q", m.filter)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.filter != view.FilterCompleted {
		t.Fatalf("expected completed filter after wrapping back; got %q", m.filter)
	}

	m = send(t, m, runes("C"))
	if s.Len() != 1 {
		t.Fatalf("expected completed task cleared; got %d tasks", s.Len())
	}
	if !strings.Contains(m.View(), "No tasks found") {
		t.Fatalf("expected empty message under completed filter")
	}
}

func TestApp_SortCycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	for _, want := range []view.Sort{view.SortDateAsc, view.SortDateDesc, view.SortNameAsc, view.SortNameDesc, view.SortDefault} {
		m = send(t, m, runes("s"))
		if m.sort != want {
			t.Fatalf("expected sort %q; got %q", want, m.sort)
		}
	}
}

func TestApp_StatePersistsBetweenRuns(t *testing.T) {
	m, s, kv := newTestModel(t)
	ctx := context.Background()
	_, _ = s.Add(ctx, "a")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("s"))

	again := newAppModel(ctx, Options{Store: s, KV: kv})
	if again.filter != view.FilterActive || again.sort != view.SortDateAsc {
		t.Fatalf("expected restored filter/sort; got %q/%q", again.filter, again.sort)
	}
}

func TestApp_DegradedBanner(t *testing.T) {
	m, s, kv := newTestModel(t)
	kv.SetUnavailable(true)
	m = addVia(t, m, "offline")
	if s.StorageStatus() != model.StorageDegraded {
		t.Fatalf("expected degraded status")
	}
	if !strings.Contains(m.View(), "Could not save tasks") {
		t.Fatalf("expected warning banner; got:\n%s", m.View())
	}

	kv.SetUnavailable(false)
	m = addVia(t, m, "back online")
	if strings.Contains(m.View(), "Could not save tasks") {
		t.Fatalf("expected banner gone after successful write")
	}
}

func TestApp_QuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	// While typing, q is just text.
	m = send(t, m, runes("a"), runes("q"))
	if m.input.Value() != "q" {
		t.Fatalf("expected q typed into input; got %q", m.input.Value())
	}
}
