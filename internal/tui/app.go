package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/tasks"
	"todo-cli/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const flashDuration = 2 * time.Second

type focus int

const (
	focusList focus = iota
	focusInput
)

type flashDoneMsg struct{ seq int }

// Options wires the TUI to an opened task store.
type Options struct {
	Store *tasks.Store

	// KV, when set, persists the last filter/sort/selection between runs.
	KV store.KV

	Filter view.Filter
	Sort   view.Sort
	Glyphs string
}

// Run starts the interactive task list and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	m := newAppModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type appModel struct {
	ctx   context.Context
	store *tasks.Store
	kv    store.KV

	filter view.Filter
	sort   view.Sort

	// cursor indexes the current view's items.
	cursor int
	focus  focus

	input  textinput.Model
	keys   keyMap
	help   help.Model
	glyphs glyphSet

	width  int
	height int

	flash    string
	flashSeq int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	in := textinput.New()
	in.Placeholder = "Add a new task..."
	in.Prompt = "+ "
	in.CharLimit = 500

	m := appModel{
		ctx:    ctx,
		store:  opts.Store,
		kv:     opts.KV,
		filter: view.ParseFilter(string(opts.Filter)),
		sort:   view.ParseSort(string(opts.Sort)),
		input:  in,
		keys:   defaultKeyMap(),
		help:   help.New(),
		glyphs: parseGlyphs(opts.Glyphs),
		width:  80,
		height: 24,
	}
	m.restoreState()
	return m
}

func (m *appModel) restoreState() {
	if m.kv == nil {
		return
	}
	st, err := store.LoadTUIState(m.ctx, m.kv)
	if err != nil || st == nil {
		return
	}
	if st.Filter != "" {
		m.filter = view.ParseFilter(st.Filter)
	}
	if st.Sort != "" {
		m.sort = view.ParseSort(st.Sort)
	}
	if st.SelectedID != "" {
		m.selectID(model.TaskID(st.SelectedID))
	}
}

// saveState is best effort; the task list itself never depends on it.
func (m appModel) saveState() {
	if m.kv == nil {
		return
	}
	st := &store.TUIState{Filter: string(m.filter), Sort: string(m.sort)}
	if t, ok := m.selected(); ok {
		st.SelectedID = string(t.ID)
	}
	_ = store.SaveTUIState(m.ctx, m.kv, st)
}

func (m appModel) currentView() view.View {
	return m.store.View(m.filter, m.sort)
}

func (m appModel) selected() (model.Task, bool) {
	v := m.currentView()
	if m.cursor < 0 || m.cursor >= len(v.Items) {
		return model.Task{}, false
	}
	return v.Items[m.cursor], true
}

func (m *appModel) selectID(id model.TaskID) {
	for i, t := range m.currentView().Items {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *appModel) clampCursor() {
	n := len(m.currentView().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) showFlash(msg string) tea.Cmd {
	m.flashSeq++
	m.flash = msg
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-6)
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.saveState()
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		t, err := m.store.Add(m.ctx, m.input.Value())
		if err != nil {
			if tasks.IsValidation(err) {
				return m, m.showFlash("Task cannot be empty!")
			}
			return m, m.showFlash(err.Error())
		}
		m.input.Reset()
		m.selectID(t.ID)
		return m, nil
	case key.Matches(msg, m.keys.Blur):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveState()
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.currentView().Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.store.ToggleCompleted(m.ctx, t.ID)
			// The task may leave the current filter; keep the cursor in range.
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.store.Remove(m.ctx, t.ID)
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.ClearCompleted):
		if n := m.store.ClearCompleted(m.ctx); n > 0 {
			m.clampCursor()
			return m, m.showFlash(fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task", "tasks")))
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.filter = stepFilter(m.filter, 1)
		m.cursor = 0
		m.saveState()
	case key.Matches(msg, m.keys.PrevFilter):
		m.filter = stepFilter(m.filter, -1)
		m.cursor = 0
		m.saveState()
	case key.Matches(msg, m.keys.CycleSort):
		m.sort = stepSort(m.sort)
		m.cursor = 0
		m.saveState()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func stepFilter(f view.Filter, delta int) view.Filter {
	n := len(view.Filters)
	for i, x := range view.Filters {
		if x == f {
			return view.Filters[((i+delta)%n+n)%n]
		}
	}
	return view.FilterAll
}

func stepSort(s view.Sort) view.Sort {
	for i, x := range view.Sorts {
		if x == s {
			return view.Sorts[(i+1)%len(view.Sorts)]
		}
	}
	return view.SortDefault
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (m appModel) View() string {
	v := m.currentView()
	w := max(20, m.width)

	var b strings.Builder
	b.WriteString(styleTitle().Render("To-Do List"))
	b.WriteString("\n")

	if m.store.StorageStatus() == model.StorageDegraded {
		b.WriteString(styleWarning().Render(truncate("Warning: Could not save tasks to storage. Your changes may not persist.", w-2, m.glyphs)))
		b.WriteString("\n\n")
	}

	b.WriteString(styleInputBox().Width(w - 2).Render(m.input.View()))
	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(styleFlash().Render(m.flash))
	}
	b.WriteString("\n")

	b.WriteString(m.renderTabs(v))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("Sort by: " + v.Sort.Label()))
	b.WriteString("\n\n")

	b.WriteString(m.renderItems(v, w))
	b.WriteString("\n")

	stats := fmt.Sprintf("%d %s remaining", v.RemainingCount, plural(v.RemainingCount, "task", "tasks"))
	if v.CompletedCount > 0 {
		stats += styleMuted().Render(fmt.Sprintf("  ·  Clear completed (%d): C", v.CompletedCount))
	}
	b.WriteString(stats)
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) renderTabs(v view.View) string {
	tabs := []string{
		styleTab(v.Filter == view.FilterAll).Render(fmt.Sprintf("All (%d)", v.Total)),
		styleTab(v.Filter == view.FilterActive).Render(fmt.Sprintf("Active (%d)", v.RemainingCount)),
		styleTab(v.Filter == view.FilterCompleted).Render(fmt.Sprintf("Completed (%d)", v.CompletedCount)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, styleMuted().Render("Filter: "), strings.Join(tabs, " "))
}

func (m appModel) renderItems(v view.View, w int) string {
	if len(v.Items) == 0 {
		return styleMuted().Render("No tasks found") + "\n"
	}

	// Rows that fit between the header block and the footer.
	rows := m.height - 14
	if rows < 3 {
		rows = 3
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(v.Items), start+rows)

	var b strings.Builder
	for i := start; i < end; i++ {
		t := v.Items[i]
		sel := i == m.cursor && m.focus == focusList
		prefix := "  "
		if sel {
			prefix = m.glyphs.cursor() + " "
		}
		line := prefix + m.glyphs.checkbox(t.Completed) + " " + t.Text
		line = truncate(line, w-1, m.glyphs)
		b.WriteString(styleRow(sel, t.Completed).Render(line))
		b.WriteString("\n")
	}
	if end < len(v.Items) {
		b.WriteString(styleMuted().Render(fmt.Sprintf("  … %d more", len(v.Items)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, w int, gs glyphSet) string {
	if w <= 0 {
		return ""
	}
	return xansi.Truncate(s, w, gs.ellipsis())
}
