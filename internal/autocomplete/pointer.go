package autocomplete

import (
	"math"

	"biblion/internal/editbuf"

	tea "github.com/charmbracelet/bubbletea"
)

// Layout of an input, in cells relative to its origin: a bordered text box
// of boxHeight rows, then the bordered popup whose first row sits at
// popupTop.
const (
	boxHeight  = 3
	textLeft   = 2
	popupTop   = boxHeight + 1
	popupLeft  = 1
	boxPadding = 4
)

// PointerCapture is the window-level pointer subscription of a focused
// input. While held, pointer moves and releases anywhere on screen reach the
// input, so a drag that ends outside it still finishes and a click elsewhere
// closes it. It is acquired on focus and released on blur.
type PointerCapture struct {
	held bool
}

// Acquire subscribes to global pointer events.
func (c *PointerCapture) Acquire() { c.held = true }

// Release drops the subscription.
func (c *PointerCapture) Release() { c.held = false }

// Held reports whether the subscription is active.
func (c PointerCapture) Held() bool { return c.held }

// PointerCaptured reports whether the input receives pointer events outside
// its bounds.
func (m Model) PointerCaptured() bool { return m.capture.Held() }

// Height is the number of rows InputView occupies.
const Height = boxHeight

// PopupOffset returns the screen cell where PopupView's top-left corner
// belongs.
func (m Model) PopupOffset() (x, y int) {
	return m.originX, m.originY + boxHeight
}

// inText reports whether the screen cell (x, y) is inside the text box.
func (m Model) inText(x, y int) bool {
	return x >= m.originX && x < m.originX+m.width+boxPadding &&
		y >= m.originY && y < m.originY+boxHeight
}

// rowAt maps the screen cell (x, y) to a suggestion index.
func (m Model) rowAt(x, y int) (int, bool) {
	if !m.shown() {
		return 0, false
	}
	rows := m.visibleRows()
	r := y - (m.originY + popupTop)
	if r < 0 || r >= len(rows) {
		return 0, false
	}
	left := m.originX + popupLeft
	if x < left || x >= left+m.popupWidth() {
		return 0, false
	}
	return m.rowOffset + r, true
}

// offsetAt maps a screen column to a text offset. Columns outside the text
// box are clamped to it first.
func (m Model) offsetAt(x int) int {
	col := x - (m.originX + textLeft) - m.leadingPad()
	if col < 0 {
		col = 0
	}
	if col > m.width {
		col = m.width
	}
	return m.buf.OffsetAtColumn(m.scroll, col)
}

func (m Model) placeholderMode() bool {
	return m.buf.Len() == 0 && m.placeholder != ""
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	inText := m.inText(msg.X, msg.Y)
	row, onRow := m.rowAt(msg.X, msg.Y)
	m.hovering = inText

	if !inText && !onRow && !m.capture.Held() {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if onRow {
			m.pressedRow = row
			m.consumed = true
			return nil
		}
		if inText {
			return m.pointerDown(msg.X)
		}
	case tea.MouseActionMotion:
		if m.dragging && m.focused {
			m.buf.DragTo(m.offsetAt(msg.X))
			m.consumed = true
			return nil
		}
		if onRow && msg.Button == tea.MouseButtonNone {
			m.sugg.hover(row)
		}
	case tea.MouseActionRelease:
		return m.pointerUp(row, onRow)
	}
	return nil
}

func (m *Model) pointerDown(x int) tea.Cmd {
	m.consumed = true
	m.dragging = true
	if !m.placeholderMode() {
		m.buf.BeginDrag(m.offsetAt(x))
	}
	cmd := m.Focus()
	if m.buf.Len() > 0 {
		m.sugg.open = true
	}
	return cmd
}

func (m *Model) pointerUp(row int, onRow bool) tea.Cmd {
	pressed := m.pressedRow
	m.pressedRow = -1
	m.buf.Release()

	if onRow && row == pressed {
		m.consumed = true
		m.dragging = false
		m.sugg.hover(row)
		return m.submit()
	}
	if !m.focused {
		m.dragging = false
		return nil
	}
	if m.dragging {
		m.dragging = false
		return nil
	}
	m.sugg.open = false
	m.blur()
	return nil
}

// keepCursorVisible scrolls the text so the cursor stays inside the box.
func (m *Model) keepCursorVisible() {
	c := m.buf.Cursor()
	if c < m.scroll {
		m.scroll = c
	}
	for m.scroll < c && m.buf.Width(m.scroll, c) >= m.width {
		next := m.buf.OffsetAtColumn(m.scroll, 1)
		if next <= m.scroll {
			break
		}
		m.scroll = next
	}
	if m.scroll > m.buf.Len() {
		m.scroll = m.buf.Len()
	}
}

// keepSelectionVisible scrolls the popup so the highlighted row is shown.
func (m *Model) keepSelectionVisible() {
	n := len(m.popupRows())
	maxOffset := n - m.maxRows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if sel := m.sugg.selected; sel >= 0 {
		if sel < m.rowOffset {
			m.rowOffset = sel
		}
		if sel >= m.rowOffset+m.maxRows {
			m.rowOffset = sel - m.maxRows + 1
		}
	}
	if m.rowOffset > maxOffset {
		m.rowOffset = maxOffset
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}
}

// popupRows returns the rows to draw: the live list while open, the last
// shown list while the popup fades out.
func (m Model) popupRows() []string {
	if m.shown() {
		return m.sugg.filtered
	}
	return m.lastRows
}

func (m Model) visibleRows() []string {
	rows := m.popupRows()
	if m.rowOffset >= len(rows) {
		return nil
	}
	rows = rows[m.rowOffset:]
	if len(rows) > m.maxRows {
		rows = rows[:m.maxRows]
	}
	return rows
}

// popupWidth is the inner width of the popup, shrunk by the animation scale.
func (m Model) popupWidth() int {
	full := m.width + boxPadding - 2
	return int(math.Round(float64(full) * m.Frame().Scale))
}

// leadingPad is the alignment offset of text narrower than the box.
func (m Model) leadingPad() int {
	if m.scroll > 0 {
		return 0
	}
	var used int
	switch tail := m.tail(); {
	case m.placeholderMode():
		used = editbuf.StringWidth(m.placeholder)
	case tail == "" && m.focused && m.buf.Cursor() == m.buf.Len():
		used = m.buf.Width(0, m.buf.Len()) + 1
	default:
		used = m.buf.Width(0, m.buf.Len()) + editbuf.StringWidth(tail)
	}
	free := m.width - used
	if free <= 0 {
		return 0
	}
	return int(float64(free) * m.align.factor())
}

// tail is the text drawn after the buffer: the composition while one is
// pending, otherwise the ghost completion.
func (m Model) tail() string {
	if m.preedit != "" {
		return m.preedit
	}
	return m.Ghost()
}
