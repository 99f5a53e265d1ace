package autocomplete

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Align positions text that is narrower than the input.
type Align int

// Alignments of text within the input box.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign maps "left", "center" and "right" to an Align. Anything else is
// left aligned.
func ParseAlign(s string) Align {
	switch s {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	}
	return AlignLeft
}

func (a Align) factor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	}
	return 0
}

// Colors are the hex colors an input renders with. The popup fades between
// Background and the other colors, so all of them must be hex values.
type Colors struct {
	Text            lipgloss.Color
	Placeholder     lipgloss.Color
	Background      lipgloss.Color
	HoverBackground lipgloss.Color
	Border          lipgloss.Color
	FocusBorder     lipgloss.Color
	Selection       lipgloss.Color
	Highlight       lipgloss.Color
}

// DefaultColors is a dark palette.
var DefaultColors = Colors{
	Text:            lipgloss.Color("#e0e0e0"),
	Placeholder:     lipgloss.Color("#7a7a7a"),
	Background:      lipgloss.Color("#1e1e1e"),
	HoverBackground: lipgloss.Color("#2a2a2a"),
	Border:          lipgloss.Color("#444444"),
	FocusBorder:     lipgloss.Color("#5f87ff"),
	Selection:       lipgloss.Color("#264f78"),
	Highlight:       lipgloss.Color("#3c3c3c"),
}

// Option configures a Model.
type Option func(*Model)

// WithPlaceholder sets the text shown while the input is empty.
func WithPlaceholder(s string) Option {
	return func(m *Model) { m.placeholder = s }
}

// WithAutoFocus focuses the input on creation.
func WithAutoFocus(on bool) Option {
	return func(m *Model) { m.autoFocus = on }
}

// WithWidth sets the number of text cells inside the input box.
func WithWidth(w int) Option {
	return func(m *Model) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithEnabled sets whether the input reacts to keyboard and pointer input.
func WithEnabled(on bool) Option {
	return func(m *Model) { m.enabled = on }
}

// WithAlign sets the text alignment.
func WithAlign(a Align) Option {
	return func(m *Model) { m.align = a }
}

// WithOnSubmit sets the callback run once per accepted text. The returned
// command, if any, is handed back to the program.
func WithOnSubmit(fn func(text string) tea.Cmd) Option {
	return func(m *Model) { m.onSubmit = fn }
}

// WithMaxRows caps the number of suggestion rows shown at once.
func WithMaxRows(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxRows = n
		}
	}
}

// WithColors sets the palette.
func WithColors(c Colors) Option {
	return func(m *Model) { m.colors = c }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.KeyMap = k }
}

// WithClock replaces time.Now for the popup animation.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}
