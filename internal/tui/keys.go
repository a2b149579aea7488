package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextFile  key.Binding
	PrevFile  key.Binding
	Edit      key.Binding
	External  key.Binding
	Diff      key.Binding
	Generate  key.Binding
	CycleType key.Binding
	Scope     key.Binding
	Move      key.Binding
	Merge     key.Binding
	Commit    key.Binding
	CommitAll key.Binding
	Toggle    key.Binding
	Confirm   key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Clear     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextFile: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n/tab", "next file"),
	),
	PrevFile: key.NewBinding(
		key.WithKeys("N", "shift+tab"),
		key.WithHelp("N/S-tab", "prev file"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit message"),
	),
	External: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "edit in $EDITOR"),
	),
	Diff: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "view diff"),
	),
	Generate: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "AI message"),
	),
	CycleType: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle type"),
	),
	Scope: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "set scope"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move file"),
	),
	Merge: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "merge group"),
	),
	Commit: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "commit"),
	),
	CommitAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "commit all"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "unified/split"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear status"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// browsingKeys are listed in the full help screen, in this order.
func (k keyMap) browsingKeys() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.NextFile, k.PrevFile,
		k.Edit, k.External, k.Generate, k.CycleType, k.Scope,
		k.Move, k.Merge, k.Diff, k.Commit, k.CommitAll,
		k.Clear, k.Help, k.Quit,
	}
}

func (k keyMap) diffKeys() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFile, k.PrevFile, k.Toggle, k.Cancel}
}
