// Package editbuf holds the single-line text model behind an input: the
// edited runes, a cursor, an optional selection and an undo history.
//
// Offsets are rune offsets. Every mutation clamps its arguments, so a Buffer
// never reports an error and never holds an offset outside [0, Len()].
package editbuf

import (
	"unicode"

	"github.com/charmbracelet/bubbles/runeutil"
)

// Buffer is a single-line editable text. The zero value is an empty buffer.
type Buffer struct {
	text   []rune
	cursor int

	// anchor is the fixed end of the selection; the cursor is the moving end.
	anchor   int
	selected bool
	dragging bool

	hist history
	san  runeutil.Sanitizer
}

// New returns a buffer holding text with the cursor at its end.
func New(text string) *Buffer {
	b := &Buffer{}
	b.text = b.sanitize([]rune(text))
	b.cursor = len(b.text)
	return b
}

func (b *Buffer) sanitize(r []rune) []rune {
	if b.san == nil {
		b.san = runeutil.NewSanitizer(
			runeutil.ReplaceTabs(" "), runeutil.ReplaceNewlines(" "))
	}
	return b.san.Sanitize(r)
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return string(b.text) }

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the cursor offset.
func (b *Buffer) Cursor() int { return b.cursor }

// Runes returns a copy of the runes in [start, end).
func (b *Buffer) Runes(start, end int) []rune {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	out := make([]rune, end-start)
	copy(out, b.text[start:end])
	return out
}

// Selection returns the selected range. ok is false when nothing is
// selected or the selection is empty.
func (b *Buffer) Selection() (start, end int, ok bool) {
	if !b.selected || b.anchor == b.cursor {
		return b.cursor, b.cursor, false
	}
	if b.anchor < b.cursor {
		return b.anchor, b.cursor, true
	}
	return b.cursor, b.anchor, true
}

// SelectedText returns the selected text, or "" when nothing is selected.
func (b *Buffer) SelectedText() string {
	start, end, ok := b.Selection()
	if !ok {
		return ""
	}
	return string(b.text[start:end])
}

// Dragging reports whether a pointer selection gesture is in progress.
func (b *Buffer) Dragging() bool { return b.dragging }

func (b *Buffer) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(b.text) {
		return len(b.text)
	}
	return off
}

// SetAll replaces the whole text, moves the cursor to the end and clears the
// selection and the undo history. Calling it with the current text is a no-op.
func (b *Buffer) SetAll(text string) {
	if text == string(b.text) {
		return
	}
	b.text = b.sanitize([]rune(text))
	b.cursor = len(b.text)
	b.clearSelection()
	b.dragging = false
	b.hist.clear()
}

// MoveCursorTo places the cursor at off, snapped back to a grapheme boundary,
// and drops the selection.
func (b *Buffer) MoveCursorTo(off int) {
	b.cursor = b.snap(b.clamp(off))
	b.clearSelection()
}

func (b *Buffer) clearSelection() {
	b.selected = false
	b.anchor = b.cursor
}

// moveTo moves the cursor, extending the selection when extend is set.
func (b *Buffer) moveTo(off int, extend bool) {
	off = b.clamp(off)
	if extend {
		if !b.selected {
			b.selected = true
			b.anchor = b.cursor
		}
		b.cursor = off
		return
	}
	b.cursor = off
	b.clearSelection()
}

// MoveLeft moves one grapheme left. Without extend, an active selection
// collapses to its start.
func (b *Buffer) MoveLeft(extend bool) {
	if start, _, ok := b.Selection(); ok && !extend {
		b.moveTo(start, false)
		return
	}
	b.moveTo(b.prevBoundary(b.cursor), extend)
}

// MoveRight moves one grapheme right. Without extend, an active selection
// collapses to its end.
func (b *Buffer) MoveRight(extend bool) {
	if _, end, ok := b.Selection(); ok && !extend {
		b.moveTo(end, false)
		return
	}
	b.moveTo(b.nextBoundary(b.cursor), extend)
}

// Home moves to the start of the line.
func (b *Buffer) Home(extend bool) { b.moveTo(0, extend) }

// End moves to the end of the line.
func (b *Buffer) End(extend bool) { b.moveTo(len(b.text), extend) }

// WordLeft moves to the start of the previous word.
func (b *Buffer) WordLeft(extend bool) { b.moveTo(b.wordStart(b.cursor), extend) }

// WordRight moves past the end of the next word.
func (b *Buffer) WordRight(extend bool) { b.moveTo(b.wordEnd(b.cursor), extend) }

// SelectAll selects the whole text.
func (b *Buffer) SelectAll() {
	b.anchor = 0
	b.cursor = len(b.text)
	b.selected = len(b.text) > 0
}

func (b *Buffer) wordStart(off int) int {
	i := off
	for i > 0 && unicode.IsSpace(b.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.text[i-1]) {
		i--
	}
	return i
}

func (b *Buffer) wordEnd(off int) int {
	i := off
	for i < len(b.text) && unicode.IsSpace(b.text[i]) {
		i++
	}
	for i < len(b.text) && !unicode.IsSpace(b.text[i]) {
		i++
	}
	return i
}

// replace swaps [start, end) for r, records history and leaves the cursor
// after the inserted runes.
func (b *Buffer) replace(start, end int, r []rune) {
	b.hist.record(b.snapshot())
	tail := append([]rune(nil), b.text[end:]...)
	b.text = append(append(b.text[:start], r...), tail...)
	b.cursor = start + len(r)
	b.clearSelection()
}

// Insert types s at the cursor, replacing the selection if there is one.
// Tabs and newlines become spaces. It reports whether the text changed.
func (b *Buffer) Insert(s string) bool {
	r := b.sanitize([]rune(s))
	start, end, ok := b.Selection()
	if !ok {
		start, end = b.cursor, b.cursor
	}
	if len(r) == 0 && start == end {
		return false
	}
	b.replace(start, end, r)
	return true
}

// deleteRange removes [start, end) or the selection when one is active.
func (b *Buffer) deleteRange(start, end int) bool {
	if s, e, ok := b.Selection(); ok {
		start, end = s, e
	}
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return false
	}
	b.replace(start, end, nil)
	return true
}

// DeleteBackward removes the grapheme before the cursor, or the selection.
func (b *Buffer) DeleteBackward() bool {
	return b.deleteRange(b.prevBoundary(b.cursor), b.cursor)
}

// DeleteForward removes the grapheme after the cursor, or the selection.
func (b *Buffer) DeleteForward() bool {
	return b.deleteRange(b.cursor, b.nextBoundary(b.cursor))
}

// DeleteWordBackward removes the word before the cursor, or the selection.
func (b *Buffer) DeleteWordBackward() bool {
	return b.deleteRange(b.wordStart(b.cursor), b.cursor)
}

// DeleteToStart removes everything before the cursor, or the selection.
func (b *Buffer) DeleteToStart() bool { return b.deleteRange(0, b.cursor) }

// DeleteToEnd removes everything after the cursor, or the selection.
func (b *Buffer) DeleteToEnd() bool { return b.deleteRange(b.cursor, len(b.text)) }

// BeginDrag starts a pointer selection gesture at off.
func (b *Buffer) BeginDrag(off int) {
	b.MoveCursorTo(off)
	b.dragging = true
}

// DragTo extends the selection started by BeginDrag toward off.
// It does nothing when no gesture is in progress.
func (b *Buffer) DragTo(off int) {
	if !b.dragging {
		return
	}
	b.moveTo(b.snap(b.clamp(off)), true)
}

// Release ends a pointer selection gesture. An empty selection is dropped.
func (b *Buffer) Release() {
	b.dragging = false
	if b.selected && b.anchor == b.cursor {
		b.clearSelection()
	}
}
