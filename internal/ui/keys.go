package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the list keybindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Search      key.Binding
	Filter      key.Binding
	AltFilter   key.Binding
	ClearFilter key.Binding
	Open        key.Binding
	Delete      key.Binding
	Status      key.Binding
	Reply       key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status"),
		),
		AltFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "set status"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "refresh"),
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
}

// DialogKeyMap defines keybindings inside a dialog.
type DialogKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Close   key.Binding
	Escape  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Toggle  key.Binding
	Send    key.Binding
}

// DefaultDialogKeyMap returns the default dialog keybindings.
func DefaultDialogKeyMap() DialogKeyMap {
	return DialogKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "cancel"),
		),
		Close: key.NewBinding(
			key.WithKeys("q", "enter"),
			key.WithHelp("q", "close"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Next: key.NewBinding(
			key.WithKeys("j", "down", "l", "right"),
			key.WithHelp("j/k", "choose"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up", "h", "left"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c", "toggle"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "send"),
		),
	}
}
