package autocomplete

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of bindings the input reacts to. Any other printable key
// is typed into the buffer.
type KeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Cancel key.Binding

	CharacterForward        key.Binding
	CharacterBackward       key.Binding
	WordForward             key.Binding
	WordBackward            key.Binding
	LineStart               key.Binding
	LineEnd                 key.Binding
	SelectForward           key.Binding
	SelectBackward          key.Binding
	SelectToStart           key.Binding
	SelectToEnd             key.Binding
	SelectAll               key.Binding
	DeleteCharacterBackward key.Binding
	DeleteCharacterForward  key.Binding
	DeleteWordBackward      key.Binding
	DeleteBeforeCursor      key.Binding
	DeleteAfterCursor       key.Binding
	Paste                   key.Binding
	Undo                    key.Binding
	Redo                    key.Binding
}

// DefaultKeyMap returns the bindings used when none are configured.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Next:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next suggestion")),
		Prev:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous suggestion")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

		CharacterForward:        key.NewBinding(key.WithKeys("right", "ctrl+f")),
		CharacterBackward:       key.NewBinding(key.WithKeys("left", "ctrl+b")),
		WordForward:             key.NewBinding(key.WithKeys("alt+right", "ctrl+right", "alt+f")),
		WordBackward:            key.NewBinding(key.WithKeys("alt+left", "ctrl+left", "alt+b")),
		LineStart:               key.NewBinding(key.WithKeys("home", "ctrl+a")),
		LineEnd:                 key.NewBinding(key.WithKeys("end", "ctrl+e")),
		SelectForward:           key.NewBinding(key.WithKeys("shift+right")),
		SelectBackward:          key.NewBinding(key.WithKeys("shift+left")),
		SelectToStart:           key.NewBinding(key.WithKeys("shift+home")),
		SelectToEnd:             key.NewBinding(key.WithKeys("shift+end")),
		SelectAll:               key.NewBinding(key.WithKeys("alt+a")),
		DeleteCharacterBackward: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		DeleteCharacterForward:  key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		DeleteWordBackward:      key.NewBinding(key.WithKeys("alt+backspace", "ctrl+w")),
		DeleteBeforeCursor:      key.NewBinding(key.WithKeys("ctrl+u")),
		DeleteAfterCursor:       key.NewBinding(key.WithKeys("ctrl+k")),
		Paste:                   key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Undo:                    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:                    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit, k.Cancel},
		{k.Paste, k.Undo, k.Redo},
	}
}
