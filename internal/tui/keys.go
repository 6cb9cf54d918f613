package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding
	NextFilter     key.Binding
	PrevFilter     key.Binding
	CycleSort      key.Binding
	FocusInput     key.Binding
	Submit         key.Binding
	Blur           key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ClearCompleted: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		NextFilter:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevFilter:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		CycleSort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		FocusInput:     key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add task")),
		Submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Blur:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp and FullHelp implement help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusInput, k.Toggle, k.Delete, k.NextFilter, k.CycleSort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.FocusInput, k.Submit, k.Blur},
		{k.NextFilter, k.PrevFilter, k.CycleSort, k.ClearCompleted},
		{k.Help, k.Quit},
	}
}
