package editbuf

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// boundaries returns the rune offsets at which grapheme clusters start,
// followed by Len().
func (b *Buffer) boundaries() []int {
	out := []int{0}
	if len(b.text) == 0 {
		return out
	}
	g := uniseg.NewGraphemes(string(b.text))
	off := 0
	for g.Next() {
		off += len(g.Runes())
		out = append(out, off)
	}
	return out
}

// snap moves off back to the nearest grapheme boundary.
func (b *Buffer) snap(off int) int {
	prev := 0
	for _, bd := range b.boundaries() {
		if bd > off {
			break
		}
		prev = bd
	}
	return prev
}

func (b *Buffer) prevBoundary(off int) int {
	prev := 0
	for _, bd := range b.boundaries() {
		if bd >= off {
			break
		}
		prev = bd
	}
	return prev
}

func (b *Buffer) nextBoundary(off int) int {
	for _, bd := range b.boundaries() {
		if bd > off {
			return bd
		}
	}
	return len(b.text)
}

func clusterWidth(s string) int {
	w := runewidth.StringWidth(s)
	if w == 0 {
		w = uniseg.StringWidth(s)
	}
	return w
}

// Width returns the terminal cell width of the runes in [start, end).
func (b *Buffer) Width(start, end int) int {
	return StringWidth(string(b.Runes(start, end)))
}

// StringWidth returns the terminal cell width of s.
func StringWidth(s string) int {
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w += clusterWidth(g.Str())
	}
	return w
}

// OffsetAtColumn maps a cell column, counted from the rune offset from, to
// the nearest grapheme boundary. Columns outside the text are clamped to
// its ends.
func (b *Buffer) OffsetAtColumn(from, col int) int {
	from = b.snap(b.clamp(from))
	if col <= 0 {
		return from
	}
	used := 0
	bounds := b.boundaries()
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if start < from {
			continue
		}
		w := clusterWidth(string(b.text[start:end]))
		if col < used+w {
			if col-used >= (w+1)/2 {
				return end
			}
			return start
		}
		used += w
	}
	return len(b.text)
}

// Cluster is one grapheme of the buffer with its rune range and cell width.
type Cluster struct {
	Start, End int
	Text       string
	Width      int
}

// Clusters returns the graphemes that start at or after the offset from.
func (b *Buffer) Clusters(from int) []Cluster {
	bounds := b.boundaries()
	var out []Cluster
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if start < from {
			continue
		}
		s := string(b.text[start:end])
		out = append(out, Cluster{Start: start, End: end, Text: s, Width: clusterWidth(s)})
	}
	return out
}
