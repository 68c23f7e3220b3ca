package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the application shortcuts. Keys not bound here reach the
// editor on the Code tab.
type KeyMap struct {
	Action   key.Binding
	Generate key.Binding
	Explain  key.Binding
	Check    key.Binding
	Language key.Binding
	Target   key.Binding
	Theme    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Save     key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Action:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run")),
		Generate: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Explain:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "explain")),
		Check:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "check")),
		Language: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
		Target:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "target")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		NextTab:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev tab")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy result")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Action, k.Generate, k.Explain, k.Check, k.Language, k.Theme, k.NextTab, k.Save, k.Quit}
}
