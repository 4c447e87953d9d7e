package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	NextSet  key.Binding
	PrevSet  key.Binding
	Send     key.Binding
	Activate key.Binding
	Help     key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextSet: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next set"),
	),
	PrevSet: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous set"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send test"),
	),
	Activate: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "use set"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSet, k.Send, k.Activate, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSet, k.PrevSet, k.Activate},
		{k.Send, k.Help, k.Quit},
	}
}
