package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the launcher's key bindings.
type KeyMap struct {
	NextMatch key.Binding
	PrevMatch key.Binding
	Commit    key.Binding
	Abort     key.Binding
	Erase     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextMatch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous match"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "launch"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "erase"),
		),
	}
}
