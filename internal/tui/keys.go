package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the shell's own bindings. Page views see every key the shell
// and the navigation region leave unhandled.
type KeyMap struct {
	Quit   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Jump   key.Binding
	Picker key.Binding
	Retry  key.Binding
	Help   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:   key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next page")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev page")),
		Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "jump")),
		Picker: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to")),
		Retry:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Next, k.Picker, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Next, k.Prev},
		{k.Picker, k.Retry},
		{k.Help, k.Quit},
	}
}
