package autocomplete

import (
	"strings"
	"testing"
	"time"

	"biblion/internal/anim"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var books = []string{"Genesis", "Exodo", "Levitico", "Juan", "1 Juan", "2 Juan", "3 Juan"}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type submits struct{ got []string }

func (s *submits) record(text string) tea.Cmd {
	s.got = append(s.got, text)
	return nil
}

type noopMsg struct{}

func newInput(t *testing.T, value *Value, opts ...Option) (Model, *submits, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	sub := &submits{}
	opts = append([]Option{
		WithAutoFocus(true),
		WithWidth(20),
		WithClock(clock.Now),
		WithOnSubmit(sub.record),
	}, opts...)
	return New(value, books, opts...), sub, clock
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func drag(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func hover(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func TestTypingFiltersAndOpens(t *testing.T) {
	value := NewValue("")
	m, sub, _ := newInput(t, value)
	require.Equal(t, FocusedClosed, m.State())

	m = typeText(m, "Gen")
	assert.Equal(t, "Gen", m.Value())
	assert.Equal(t, "Gen", value.Get(), "every edit is written to the binding")
	assert.Equal(t, []string{"Genesis"}, m.Filtered())
	assert.Equal(t, "esis", m.Ghost())
	assert.True(t, m.Open())
	assert.True(t, m.PopupVisible())
	assert.Equal(t, FocusedOpen, m.State())
	assert.Empty(t, sub.got, "typing never submits")
}

func TestAcceptHighlightedSuggestion(t *testing.T) {
	value := NewValue("")
	m, sub, _ := newInput(t, value)

	m = typeText(m, "Gen")
	m = send(m, keyOf(tea.KeyDown))
	require.Equal(t, 0, m.Selected())
	assert.Equal(t, "Gen", m.Value(), "browsing does not rewrite the text")
	assert.Empty(t, sub.got)

	m = send(m, keyOf(tea.KeyEnter))
	assert.Equal(t, "Genesis", m.Value())
	assert.Equal(t, "Genesis", value.Get())
	assert.Equal(t, 7, m.Cursor())
	assert.Equal(t, []string{"Genesis"}, sub.got)
	assert.False(t, m.Open())
	assert.Equal(t, -1, m.Selected())
	assert.False(t, m.Consumed(), "enter propagates")
}

func TestAcceptTypedText(t *testing.T) {
	m, sub, _ := newInput(t, NewValue(""))

	m = typeText(m, "Exo 3")
	m = send(m, keyOf(tea.KeyEnter))
	assert.Equal(t, []string{"Exo 3"}, sub.got)
	assert.Equal(t, "Exo 3", m.Value())
	assert.False(t, m.Open())
}

func TestSubmitFiresOncePerAccept(t *testing.T) {
	m, sub, _ := newInput(t, NewValue(""))

	m = typeText(m, "juan")
	m = send(m, keyOf(tea.KeyDown), keyOf(tea.KeyDown), keyOf(tea.KeyUp))
	assert.Empty(t, sub.got)

	m = send(m, keyOf(tea.KeyEnter))
	require.Len(t, sub.got, 1)
	assert.Equal(t, "Juan", sub.got[0])
}

func TestNavigationWrap(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "juan")
	n := len(m.Filtered())
	require.Equal(t, 4, n)

	for i := 0; i < n; i++ {
		m = send(m, keyOf(tea.KeyDown))
		assert.True(t, m.Consumed())
	}
	require.Equal(t, n-1, m.Selected())

	m = send(m, keyOf(tea.KeyDown))
	assert.Equal(t, -1, m.Selected())
	assert.Equal(t, "juan", m.Value())
	assert.Equal(t, 4, m.Cursor())

	m = send(m, keyOf(tea.KeyUp))
	assert.Equal(t, n-1, m.Selected())
}

func TestNavigationReopensClosedList(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "juan")
	m = send(m, keyOf(tea.KeyEnter))
	require.False(t, m.Open())

	m = send(m, keyOf(tea.KeyDown))
	assert.True(t, m.Open())
	assert.Equal(t, 0, m.Selected())
}

func TestTypingClearsHighlight(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "Gen")
	m = send(m, keyOf(tea.KeyDown))
	require.Equal(t, 0, m.Selected())

	m = typeText(m, "e")
	assert.Equal(t, -1, m.Selected())
	assert.Equal(t, "Gene", m.UserText())
	assert.True(t, m.Open())
}

func TestEmptyTextClosesList(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "G")
	require.True(t, m.Open())

	m = send(m, keyOf(tea.KeyBackspace))
	assert.Equal(t, "", m.Value())
	assert.False(t, m.Open())
	assert.Empty(t, m.Filtered())
	assert.Equal(t, "", m.Ghost())
}

func TestEscapeClosesAndBlurs(t *testing.T) {
	m, sub, _ := newInput(t, NewValue(""))
	m = typeText(m, "juan")
	m = send(m, keyOf(tea.KeyDown))

	m = send(m, keyOf(tea.KeyEsc))
	assert.False(t, m.Open())
	assert.False(t, m.Focused())
	assert.False(t, m.PointerCaptured())
	assert.Equal(t, -1, m.Selected())
	assert.Equal(t, "juan", m.Value())
	assert.Equal(t, Idle, m.State())
	assert.False(t, m.Consumed())
	assert.Empty(t, sub.got)

	m = typeText(m, "x")
	assert.Equal(t, "juan", m.Value(), "keys are ignored while blurred")
}

func TestExternalResetWins(t *testing.T) {
	value := NewValue("")
	m, _, _ := newInput(t, value)
	m = typeText(m, "abc")
	m = send(m, keyOf(tea.KeyShiftLeft))
	require.True(t, m.CanUndo())

	value.Set("xyz")
	m = send(m, noopMsg{})
	assert.Equal(t, "xyz", m.Value())
	assert.Equal(t, "xyz", m.UserText())
	assert.False(t, m.CanUndo())
	_, _, ok := m.Selection()
	assert.False(t, ok)
}

func TestUndo(t *testing.T) {
	value := NewValue("")
	m, _, _ := newInput(t, value)
	m = typeText(m, "ab")

	m = send(m, keyOf(tea.KeyCtrlZ))
	assert.Equal(t, "a", m.Value())
	assert.Equal(t, "a", value.Get())
	m = send(m, keyOf(tea.KeyCtrlY))
	assert.Equal(t, "ab", m.Value())
}

func TestPaste(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = send(m, pasteMsg("1\tJuan"))
	assert.Equal(t, "1 Juan", m.Value())

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" 3:16"), Paste: true})
	assert.Equal(t, "1 Juan 3:16", m.Value())
}

func TestPreedit(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "Ju")

	m = send(m, PreeditMsg{Text: "あ"})
	assert.Equal(t, "あ", m.Preedit())
	assert.Equal(t, "Ju", m.Value(), "composition is not committed text")
	assert.Contains(t, m.InputView(), "Juあ")

	m = typeText(m, "a")
	assert.Equal(t, "", m.Preedit())
	assert.Equal(t, "Jua", m.Value())
}

func TestPreeditHiddenBehindPlaceholder(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""), WithPlaceholder("Search: Juan 1:3"))
	m = send(m, PreeditMsg{Text: "あ"})
	assert.Equal(t, "", m.Preedit())
}

func TestDisableKeepsText(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "Gen")

	m.SetEnabled(false)
	assert.False(t, m.Focused())
	assert.False(t, m.Hovering())
	assert.False(t, m.PopupVisible())
	assert.Equal(t, "Gen", m.Value())

	m = send(m, press(3, 1))
	assert.False(t, m.Focused(), "disabled input ignores the pointer")

	m.SetEnabled(true)
	assert.NotNil(t, m.Focus())
	assert.True(t, m.Focused())
}

func TestPointerOpensAndOutsideClickCloses(t *testing.T) {
	m, _, _ := newInput(t, NewValue("Gen"), WithAutoFocus(false))
	require.Equal(t, Idle, m.State())

	m = send(m, press(3, 1))
	assert.True(t, m.Focused())
	assert.True(t, m.PointerCaptured())
	assert.Equal(t, Dragging, m.State())
	assert.True(t, m.Open())
	assert.True(t, m.PopupVisible())
	assert.True(t, m.Consumed())

	m = send(m, release(3, 1))
	assert.Equal(t, FocusedOpen, m.State(), "a click inside keeps focus")

	m = send(m, press(60, 20))
	assert.True(t, m.Focused())
	m = send(m, release(60, 20))
	assert.False(t, m.Focused())
	assert.False(t, m.Open())
	assert.False(t, m.PointerCaptured())
	assert.Equal(t, Idle, m.State())
}

func TestPointerOnEmptyInputStaysClosed(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""), WithAutoFocus(false))
	m = send(m, press(3, 1))
	assert.True(t, m.Focused())
	assert.False(t, m.Open())
}

func TestUnfocusedInputIgnoresOutsidePointer(t *testing.T) {
	m, _, _ := newInput(t, NewValue("Gen"), WithAutoFocus(false))
	m = send(m, press(60, 20), release(60, 20))
	assert.False(t, m.Focused())
	assert.False(t, m.Consumed())
}

func TestDragSelectsText(t *testing.T) {
	m, _, _ := newInput(t, NewValue("Genesis"), WithAutoFocus(false))
	m.SetOrigin(0, 0)

	m = send(m, press(textLeft+1, 1))
	assert.Equal(t, 1, m.Cursor())

	m = send(m, drag(textLeft+4, 1))
	start, end, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)

	m = send(m, drag(textLeft+100, 40))
	_, end, _ = m.Selection()
	assert.Equal(t, 7, end, "pointer outside the box is clamped to it")

	m = send(m, release(textLeft+100, 40))
	assert.True(t, m.Focused(), "releasing a drag outside keeps focus")
	assert.Equal(t, FocusedOpen, m.State())
	_, _, ok = m.Selection()
	assert.True(t, ok)
}

func TestSuggestionRowHoverAndClick(t *testing.T) {
	value := NewValue("")
	m, sub, _ := newInput(t, value)
	m.SetOrigin(4, 2)
	m = typeText(m, "juan")
	require.True(t, m.PopupVisible())

	rowY := func(i int) int { return 2 + popupTop + i }

	m = send(m, hover(6, rowY(2)))
	assert.Equal(t, 2, m.Selected())
	assert.Equal(t, "juan", m.Value(), "hover only previews")
	assert.Empty(t, sub.got)

	m = send(m, press(6, rowY(1)), release(6, rowY(1)))
	assert.Equal(t, "1 Juan", m.Value())
	assert.Equal(t, "1 Juan", value.Get())
	assert.Equal(t, []string{"1 Juan"}, sub.got)
	assert.False(t, m.Open())
	assert.True(t, m.Focused())
}

func TestPopupAnimation(t *testing.T) {
	m, _, clock := newInput(t, NewValue(""))
	m = typeText(m, "juan")
	require.True(t, m.Animating())
	assert.InDelta(t, anim.MinScale, m.Frame().Scale, 1e-9)

	clock.Advance(anim.Duration)
	m = send(m, FrameMsg{id: m.ID(), tag: m.frameTag})
	assert.False(t, m.Animating())
	assert.Equal(t, 1.0, m.Frame().Opacity)

	m = send(m, keyOf(tea.KeyEsc))
	assert.False(t, m.Open())
	assert.True(t, m.PopupVisible(), "closing popup fades out")
	assert.Contains(t, m.PopupView(), "1 Juan")

	clock.Advance(anim.Duration)
	m = send(m, FrameMsg{id: m.ID(), tag: m.frameTag})
	assert.False(t, m.PopupVisible())
	assert.Equal(t, "", m.PopupView())
}

func TestFrameForOtherInputIgnored(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	other, _, _ := newInput(t, NewValue(""))
	require.NotEqual(t, m.ID(), other.ID())

	m = typeText(m, "juan")
	tag := m.frameTag
	m = send(m, FrameMsg{id: other.ID(), tag: tag})
	assert.Equal(t, tag, m.frameTag)
}

func TestViewShowsGhostAndPlaceholder(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""), WithPlaceholder("Search: Juan 1:3"))
	assert.Contains(t, m.View(), "Search: Juan 1:3")

	m = typeText(m, "Gen")
	v := m.View()
	assert.Contains(t, v, "Genesis")
	assert.Equal(t, boxHeight+3, len(strings.Split(v, "\n")), "box plus a one-row popup")
}

func TestAlignment(t *testing.T) {
	m := New(NewValue("ab"), nil, WithWidth(10), WithAlign(AlignRight))
	assert.Equal(t, 8, m.leadingPad())
	assert.Equal(t, 0, m.offsetAt(textLeft+8))
	assert.Equal(t, 2, m.offsetAt(textLeft+10))

	m = New(NewValue("ab"), nil, WithWidth(10), WithAlign(AlignCenter))
	assert.Equal(t, 4, m.leadingPad())
}

func TestLongTextScrollsWithCursor(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""), WithWidth(5))
	m = typeText(m, "Apocalipsis")
	assert.Greater(t, m.scroll, 0)
	assert.Less(t, m.buf.Width(m.scroll, m.Cursor()), 5)

	m = send(m, keyOf(tea.KeyHome))
	assert.Equal(t, 0, m.scroll)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "focused-open", FocusedOpen.String())
	assert.Equal(t, "dragging", Dragging.String())
}

func TestParseAlign(t *testing.T) {
	assert.Equal(t, AlignCenter, ParseAlign("center"))
	assert.Equal(t, AlignRight, ParseAlign("right"))
	assert.Equal(t, AlignLeft, ParseAlign("bogus"))
}

func TestSetCandidatesRefilters(t *testing.T) {
	m, _, _ := newInput(t, NewValue(""))
	m = typeText(m, "ju")
	m = send(m, keyOf(tea.KeyDown))

	m.SetCandidates([]string{"Judas", "Jueces"})
	assert.Equal(t, []string{"Judas", "Jueces"}, m.Filtered())
	assert.Equal(t, -1, m.Selected())
	assert.True(t, m.Open())

	m = send(m, keyOf(tea.KeyEsc))
	m.SetCandidates(books)
	assert.False(t, m.Open(), "a closed list stays closed")
}

func TestReset(t *testing.T) {
	value := NewValue("")
	m, _, _ := newInput(t, value)
	m = typeText(m, "Gen")

	m.Reset()
	assert.Equal(t, "", m.Value())
	assert.Equal(t, "", value.Get())
	assert.False(t, m.CanUndo())
	assert.False(t, m.Open())
}

func TestPopupOffset(t *testing.T) {
	m := New(nil, nil)
	m.SetOrigin(3, 7)
	x, y := m.PopupOffset()
	assert.Equal(t, 3, x)
	assert.Equal(t, 7+Height, y)
}

func TestBindingWithTabsIsWrittenBackSanitized(t *testing.T) {
	value := NewValue("1\tJuan")
	m, _, _ := newInput(t, value, WithAutoFocus(false))
	assert.Equal(t, "1 Juan", value.Get())

	m = send(m, press(textLeft+2, 1), release(textLeft+2, 1))
	assert.Equal(t, 2, m.Cursor(), "click places the cursor")

	value.Set("a\tb")
	m = send(m, noopMsg{})
	assert.Equal(t, "a b", m.Value())
	assert.Equal(t, "a b", value.Get())

	m = send(m, keyOf(tea.KeyHome), noopMsg{})
	assert.Equal(t, 0, m.Cursor(), "a synced binding no longer resets the cursor")
}

func TestDismissFades(t *testing.T) {
	m, _, clock := newInput(t, NewValue(""))
	m = typeText(m, "juan")
	clock.Advance(anim.Duration)
	m = send(m, noopMsg{})
	require.False(t, m.Animating())

	cmd := m.Dismiss()
	assert.NotNil(t, cmd, "a frame is scheduled")
	assert.False(t, m.Focused())
	assert.False(t, m.PointerCaptured())
	assert.True(t, m.PopupVisible())
	assert.Contains(t, m.PopupView(), "1 Juan")

	clock.Advance(anim.Duration)
	m = send(m, FrameMsg{id: m.ID(), tag: m.frameTag})
	assert.False(t, m.PopupVisible())
}
