package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search      key.Binding
	Translation key.Binding
	Next        key.Binding
	Prev        key.Binding
	Theme       key.Binding
	Refresh     key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "go to")),
		Translation: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translation")),
		Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
		Theme:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "theme")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload books")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Translation, k.Next, k.Prev, k.Theme, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
