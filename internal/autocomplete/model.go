// Package autocomplete provides a single-line input with a filtered
// suggestion popup, ghost-text completion, pointer selection and an animated
// popup, as a bubbletea component.
//
// The input edits a Binding owned by the caller. Typing filters the
// candidate list; up and down cycle through the matches, enter accepts the
// highlighted one (or the typed text) and hands it to the submit callback.
package autocomplete

import (
	"sync/atomic"
	"time"
	"unicode"

	"biblion/internal/anim"
	"biblion/internal/editbuf"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth   = 30
	defaultMaxRows = 6
	frameInterval  = time.Second / 60
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// State is the interaction state of an input.
type State int

const (
	// Idle means the input is not focused and the popup is closed.
	Idle State = iota
	// FocusedClosed means the input is focused with the popup closed, e.g.
	// while empty.
	FocusedClosed
	// FocusedOpen means the input is focused with the popup open.
	FocusedOpen
	// Dragging means the pointer button is held after pressing in the text.
	Dragging
)

func (s State) String() string {
	switch s {
	case FocusedClosed:
		return "focused-closed"
	case FocusedOpen:
		return "focused-open"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// FrameMsg advances the popup animation of the input with the matching id.
type FrameMsg struct {
	id  int
	tag int
}

// PreeditMsg carries the uncommitted composition text of an input method.
// An empty Text clears it.
type PreeditMsg struct {
	Text string
}

type pasteMsg string

// Model is an autocomplete input.
type Model struct {
	KeyMap KeyMap

	id       int
	binding  Binding
	buf      *editbuf.Buffer
	sugg     suggestions
	popup    anim.Popup
	frameTag int
	frameAt  time.Time
	now      func() time.Time
	cursor   cursor.Model
	capture  PointerCapture

	placeholder string
	width       int
	maxRows     int
	align       Align
	colors      Colors
	enabled     bool
	autoFocus   bool
	onSubmit    func(string) tea.Cmd

	focused    bool
	hovering   bool
	dragging   bool
	pressedRow int
	preedit    string
	scroll     int
	rowOffset  int
	lastRows   []string
	originX    int
	originY    int
	consumed   bool
}

// New returns an input editing binding, suggesting from candidates. The
// candidate slice is copied.
func New(binding Binding, candidates []string, opts ...Option) Model {
	if binding == nil {
		binding = NewValue("")
	}
	m := Model{
		KeyMap:     DefaultKeyMap(),
		id:         nextID(),
		binding:    binding,
		buf:        editbuf.New(binding.Get()),
		sugg:       newSuggestions(candidates),
		now:        time.Now,
		cursor:     cursor.New(),
		width:      defaultWidth,
		maxRows:    defaultMaxRows,
		colors:     DefaultColors,
		enabled:    true,
		pressedRow: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if t := m.buf.Text(); t != binding.Get() {
		binding.Set(t)
	}
	m.sugg.userText = m.buf.Text()
	m.sugg.refresh(m.buf.Text())
	m.frameAt = m.now()
	if m.autoFocus && m.enabled {
		m.focused = true
		m.capture.Acquire()
		m.cursor.Focus()
	}
	m.applyCursorStyle()
	if m.shown() {
		m.popup.Open(m.frameAt)
		m.lastRows = m.sugg.filtered
	}
	return m
}

// Init starts the cursor blinking and the popup animation when the input
// begins focused.
func (m Model) Init() tea.Cmd {
	if !m.focused {
		return nil
	}
	if m.popup.Animating(m.frameAt) {
		return tea.Batch(cursor.Blink, m.nextFrame())
	}
	return cursor.Blink
}

// ID returns the unique id of the input.
func (m Model) ID() int { return m.id }

// Value returns the text in the buffer.
func (m Model) Value() string { return m.buf.Text() }

// Cursor returns the cursor offset in runes.
func (m Model) Cursor() int { return m.buf.Cursor() }

// Selection returns the selected rune range, if any.
func (m Model) Selection() (start, end int, ok bool) { return m.buf.Selection() }

// CanUndo reports whether the buffer has edits to undo.
func (m Model) CanUndo() bool { return m.buf.CanUndo() }

// Filtered returns the candidates matching the current text.
func (m Model) Filtered() []string { return m.sugg.filtered }

// Selected returns the highlighted suggestion index, or -1.
func (m Model) Selected() int {
	if _, ok := m.sugg.current(); !ok {
		return -1
	}
	return m.sugg.selected
}

// UserText returns the text last typed by the user.
func (m Model) UserText() string { return m.sugg.userText }

// Ghost returns the completion previewed after the typed text, or "".
func (m Model) Ghost() string { return m.sugg.ghost(m.buf.Text()) }

// Open reports whether the suggestion list is open.
func (m Model) Open() bool { return m.sugg.open }

// Preedit returns the pending input method composition.
func (m Model) Preedit() string { return m.preedit }

// Focused reports whether the input has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Enabled reports whether the input reacts to input.
func (m Model) Enabled() bool { return m.enabled }

// Hovering reports whether the pointer is over the text area.
func (m Model) Hovering() bool { return m.hovering }

// Consumed reports whether the last Update handled its message. Hosts should
// not route a consumed key to other components.
func (m Model) Consumed() bool { return m.consumed }

// State returns the interaction state.
func (m Model) State() State {
	switch {
	case m.dragging:
		return Dragging
	case !m.focused:
		return Idle
	case m.sugg.open:
		return FocusedOpen
	}
	return FocusedClosed
}

// shown reports whether the popup should be on screen, ignoring animation.
func (m Model) shown() bool {
	return m.sugg.open && m.focused && len(m.sugg.filtered) > 0
}

// PopupVisible reports whether the popup is drawn, which includes the tail
// of its closing animation.
func (m Model) PopupVisible() bool {
	return m.shown() || m.popup.Animating(m.frameAt)
}

// Animating reports whether the popup transition is in flight.
func (m Model) Animating() bool { return m.popup.Animating(m.frameAt) }

// Frame returns the popup animation frame of the last update.
func (m Model) Frame() anim.Frame { return m.popup.Advance(m.frameAt) }

// Focus gives the input keyboard focus and subscribes it to pointer events
// outside its bounds.
func (m *Model) Focus() tea.Cmd {
	if !m.enabled {
		return nil
	}
	m.focused = true
	m.capture.Acquire()
	m.applyCursorStyle()
	return m.cursor.Focus()
}

// Blur removes focus and closes the popup without animating it.
func (m *Model) Blur() {
	m.blur()
	m.sugg.open = false
	m.popup = anim.Popup{}
	m.lastRows = nil
}

// Dismiss closes the popup with its fade and removes focus. Hosts use it
// when they hide the input themselves.
func (m *Model) Dismiss() tea.Cmd {
	m.frameAt = m.now()
	m.sugg.open = false
	m.blur()
	return m.syncPopup()
}

func (m *Model) blur() {
	m.cancelBrowsing()
	m.focused = false
	m.dragging = false
	m.pressedRow = -1
	m.preedit = ""
	m.capture.Release()
	m.buf.Release()
	m.cursor.Blur()
}

// SetEnabled enables or disables the input. Disabling drops focus, hover and
// any pointer gesture; the text is kept.
func (m *Model) SetEnabled(on bool) {
	m.enabled = on
	if on {
		return
	}
	m.hovering = false
	m.sugg.selected = -1
	m.Blur()
}

// SetOrigin records the screen cell of the input's top-left corner, used to
// hit test pointer events.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// SetWidth sets the number of text cells.
func (m *Model) SetWidth(w int) {
	if w > 0 {
		m.width = w
	}
}

// SetColors replaces the palette.
func (m *Model) SetColors(c Colors) {
	m.colors = c
	m.applyCursorStyle()
}

// SetPlaceholder sets the text shown while empty.
func (m *Model) SetPlaceholder(s string) { m.placeholder = s }

// SetCandidates replaces the suggestion source and refilters the current
// text. Any highlight is dropped; a closed list stays closed.
func (m *Model) SetCandidates(candidates []string) {
	m.cancelBrowsing()
	open := m.sugg.open
	m.sugg.candidates = append([]string(nil), candidates...)
	m.sugg.refresh(m.buf.Text())
	m.sugg.open = open && m.sugg.open
}

// Reset clears the text, the binding and the undo history.
func (m *Model) Reset() {
	m.binding.Set("")
	m.buf.SetAll("")
	m.buf.ClearHistory()
	m.sugg.userText = ""
	m.sugg.selected = -1
	m.sugg.refresh("")
	m.preedit = ""
	m.scroll = 0
}

func (m *Model) applyCursorStyle() {
	m.cursor.Style = m.cursor.Style.Foreground(m.colors.Text)
	m.cursor.TextStyle = m.cursor.TextStyle.Foreground(m.colors.Text)
}

// Sync adopts an externally changed binding. The binding wins over any edit
// in progress and the undo history is dropped. Update calls it first.
func (m *Model) Sync() {
	v := m.binding.Get()
	if v == m.buf.Text() {
		return
	}
	m.buf.SetAll(v)
	if t := m.buf.Text(); t != v {
		m.binding.Set(t)
		v = t
	}
	m.sugg.userText = v
	m.sugg.selected = -1
	m.sugg.refresh(v)
}

// setContent replaces the text, writes it to the binding and refilters.
func (m *Model) setContent(text string) {
	m.buf.SetAll(text)
	m.buf.MoveCursorTo(m.buf.Len())
	m.binding.Set(m.buf.Text())
	m.sugg.refresh(m.buf.Text())
}

// restoreUserText puts the typed text back after browsing.
func (m *Model) restoreUserText() {
	if m.buf.Text() == m.sugg.userText {
		m.buf.MoveCursorTo(m.buf.Len())
		return
	}
	m.setContent(m.sugg.userText)
}

// cancelBrowsing drops the highlight and restores the typed text.
func (m *Model) cancelBrowsing() {
	if m.sugg.selected == -1 {
		return
	}
	m.sugg.selected = -1
	if m.buf.Text() != m.sugg.userText {
		m.setContent(m.sugg.userText)
	}
}

// Update handles keyboard, pointer, composition and animation messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m.consumed = false
	m.frameAt = m.now()
	m.Sync()

	var cmds []tea.Cmd
	if m.enabled {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if m.focused {
				cmds = append(cmds, m.handleKey(msg))
			}
		case tea.MouseMsg:
			cmds = append(cmds, m.handleMouse(msg))
		case PreeditMsg:
			if m.focused {
				m.preedit = msg.Text
				if m.placeholderMode() {
					m.preedit = ""
				}
				m.consumed = true
			}
		case pasteMsg:
			if m.focused {
				m.edit(func(b *editbuf.Buffer) bool { return b.Insert(string(msg)) })
				m.consumed = true
			}
		}
	}

	if msg, ok := msg.(FrameMsg); ok && msg.id == m.id && msg.tag == m.frameTag {
		if m.popup.Animating(m.frameAt) {
			cmds = append(cmds, m.nextFrame())
		}
	}

	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	cmds = append(cmds, cmd)

	cmds = append(cmds, m.syncPopup())
	if m.shown() {
		m.lastRows = m.sugg.filtered
	}
	m.sugg.valid()
	m.keepCursorVisible()
	m.keepSelectionVisible()

	return m, tea.Batch(cmds...)
}

// syncPopup turns the animation toward the current shown state and schedules
// a frame when it changes direction.
func (m *Model) syncPopup() tea.Cmd {
	shown := m.shown()
	if shown == m.popup.Opening() {
		return nil
	}
	if shown {
		m.popup.Open(m.frameAt)
	} else {
		m.popup.Close(m.frameAt)
	}
	m.frameTag++
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	id, tag := m.id, m.frameTag
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return FrameMsg{id: id, tag: tag}
	})
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.KeyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.KeyMap.Next):
		m.consumed = true
		if m.sugg.next() {
			m.restoreUserText()
		}
		return nil
	case key.Matches(msg, m.KeyMap.Prev):
		m.consumed = true
		if m.sugg.prev() {
			m.restoreUserText()
		}
		return nil
	case key.Matches(msg, m.KeyMap.Cancel):
		m.cancelBrowsing()
		m.sugg.open = false
		m.blur()
		return nil
	case key.Matches(msg, m.KeyMap.Paste):
		m.consumed = true
		return readClipboard
	}

	act := m.editAction(msg)
	if act == nil {
		return nil
	}
	m.consumed = true
	m.edit(act)
	return nil
}

// editAction maps a key to a buffer operation, or nil when the key is not
// one the buffer understands.
func (m *Model) editAction(msg tea.KeyMsg) func(*editbuf.Buffer) bool {
	k := m.KeyMap
	move := func(fn func(*editbuf.Buffer)) func(*editbuf.Buffer) bool {
		return func(b *editbuf.Buffer) bool { fn(b); return true }
	}
	switch {
	case key.Matches(msg, k.CharacterForward):
		return move(func(b *editbuf.Buffer) { b.MoveRight(false) })
	case key.Matches(msg, k.CharacterBackward):
		return move(func(b *editbuf.Buffer) { b.MoveLeft(false) })
	case key.Matches(msg, k.WordForward):
		return move(func(b *editbuf.Buffer) { b.WordRight(false) })
	case key.Matches(msg, k.WordBackward):
		return move(func(b *editbuf.Buffer) { b.WordLeft(false) })
	case key.Matches(msg, k.LineStart):
		return move(func(b *editbuf.Buffer) { b.Home(false) })
	case key.Matches(msg, k.LineEnd):
		return move(func(b *editbuf.Buffer) { b.End(false) })
	case key.Matches(msg, k.SelectForward):
		return move(func(b *editbuf.Buffer) { b.MoveRight(true) })
	case key.Matches(msg, k.SelectBackward):
		return move(func(b *editbuf.Buffer) { b.MoveLeft(true) })
	case key.Matches(msg, k.SelectToStart):
		return move(func(b *editbuf.Buffer) { b.Home(true) })
	case key.Matches(msg, k.SelectToEnd):
		return move(func(b *editbuf.Buffer) { b.End(true) })
	case key.Matches(msg, k.SelectAll):
		return move(func(b *editbuf.Buffer) { b.SelectAll() })
	case key.Matches(msg, k.DeleteCharacterBackward):
		return (*editbuf.Buffer).DeleteBackward
	case key.Matches(msg, k.DeleteCharacterForward):
		return (*editbuf.Buffer).DeleteForward
	case key.Matches(msg, k.DeleteWordBackward):
		return (*editbuf.Buffer).DeleteWordBackward
	case key.Matches(msg, k.DeleteBeforeCursor):
		return (*editbuf.Buffer).DeleteToStart
	case key.Matches(msg, k.DeleteAfterCursor):
		return (*editbuf.Buffer).DeleteToEnd
	case key.Matches(msg, k.Undo):
		return (*editbuf.Buffer).Undo
	case key.Matches(msg, k.Redo):
		return (*editbuf.Buffer).Redo
	}

	if (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt && printable(msg.Runes) {
		text := string(msg.Runes)
		return func(b *editbuf.Buffer) bool {
			m.preedit = ""
			return b.Insert(text)
		}
	}
	return nil
}

func printable(r []rune) bool {
	if len(r) == 0 {
		return false
	}
	for _, c := range r {
		if !unicode.IsPrint(c) && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// edit applies a buffer operation as user input: the result becomes the
// typed text, the highlight is cleared and the list reopens.
func (m *Model) edit(fn func(*editbuf.Buffer) bool) {
	fn(m.buf)
	text := m.buf.Text()
	m.binding.Set(text)
	m.sugg.userText = text
	m.sugg.selected = -1
	m.sugg.refresh(text)
}

// submit accepts the highlighted suggestion, or the typed text when nothing
// is highlighted, and runs the callback exactly once.
func (m *Model) submit() tea.Cmd {
	if c, ok := m.sugg.current(); ok {
		m.setContent(c)
		m.sugg.open = false
		m.sugg.selected = -1
		return m.fire(c)
	}
	text := m.buf.Text()
	m.sugg.open = false
	return m.fire(text)
}

func (m *Model) fire(text string) tea.Cmd {
	if m.onSubmit == nil {
		return nil
	}
	return m.onSubmit(text)
}

func readClipboard() tea.Msg {
	s, err := clipboard.ReadAll()
	if err != nil {
		return nil
	}
	return pasteMsg(s)
}
