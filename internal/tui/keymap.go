package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the finder key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k", "shift+tab"),
			key.WithHelp("↑/ctrl+k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j", "tab"),
			key.WithHelp("↓/ctrl+j", "move down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump to symbol"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete character"),
		),
	}
}
