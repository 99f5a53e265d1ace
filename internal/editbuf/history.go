package editbuf

// historyLimit caps the undo stack.
const historyLimit = 100

type snapshot struct {
	text     []rune
	cursor   int
	anchor   int
	selected bool
}

type history struct {
	undo []snapshot
	redo []snapshot
}

func (h *history) record(s snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > historyLimit {
		h.undo = h.undo[len(h.undo)-historyLimit:]
	}
	h.redo = nil
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

func (b *Buffer) snapshot() snapshot {
	return snapshot{
		text:     append([]rune(nil), b.text...),
		cursor:   b.cursor,
		anchor:   b.anchor,
		selected: b.selected,
	}
}

func (b *Buffer) restore(s snapshot) {
	b.text = append([]rune(nil), s.text...)
	b.cursor = b.clamp(s.cursor)
	b.anchor = b.clamp(s.anchor)
	b.selected = s.selected && b.anchor != b.cursor
	b.dragging = false
}

// ClearHistory forgets every undo and redo step.
func (b *Buffer) ClearHistory() { b.hist.clear() }

// CanUndo reports whether Undo would change anything.
func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo reverts the last edit.
func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 {
		return false
	}
	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = append(b.hist.redo, b.snapshot())
	b.restore(prev)
	return true
}

// Redo reapplies the last undone edit.
func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 {
		return false
	}
	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]
	b.hist.undo = append(b.hist.undo, b.snapshot())
	b.restore(next)
	return true
}
