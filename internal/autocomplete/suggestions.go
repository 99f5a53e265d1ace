package autocomplete

import "biblion/internal/fuzzy"

// suggestions tracks the filtered candidates and which one is highlighted.
// selected is -1 when the typed text is authoritative.
type suggestions struct {
	candidates []string
	filtered   []string
	selected   int
	userText   string
	open       bool
}

func newSuggestions(candidates []string) suggestions {
	return suggestions{
		candidates: append([]string(nil), candidates...),
		selected:   -1,
	}
}

// refresh recomputes the filtered list for content. Empty content closes the
// list; anything else opens it.
func (s *suggestions) refresh(content string) {
	if content == "" {
		s.open = false
		s.filtered = nil
		return
	}
	s.filtered = fuzzy.Filter(s.candidates, content)
	s.open = true
}

// valid normalizes an out-of-range selection to -1.
func (s *suggestions) valid() {
	if s.selected < -1 || s.selected >= len(s.filtered) {
		s.selected = -1
	}
}

// current returns the highlighted candidate.
func (s *suggestions) current() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.filtered) {
		return "", false
	}
	return s.filtered[s.selected], true
}

// ghost returns the completion suffix previewed after content, or "".
func (s *suggestions) ghost(content string) string {
	if content == "" || len(s.filtered) == 0 {
		return ""
	}
	best, ok := s.current()
	if !ok {
		best = s.filtered[0]
	}
	rest, ok := fuzzy.CutPrefixFold(best, content)
	if !ok {
		return ""
	}
	return rest
}

// next highlights the following candidate. Moving past the last one clears
// the highlight and reports that the typed text must be restored.
func (s *suggestions) next() (restore bool) {
	if len(s.filtered) == 0 {
		return false
	}
	s.valid()
	s.open = true
	n := s.selected + 1
	if n >= len(s.filtered) {
		s.selected = -1
		return true
	}
	s.selected = n
	return false
}

// prev highlights the preceding candidate. From no highlight it wraps to the
// last candidate; reaching no highlight reports that the typed text must be
// restored.
func (s *suggestions) prev() (restore bool) {
	if len(s.filtered) == 0 {
		return false
	}
	s.valid()
	s.open = true
	n := s.selected - 1
	switch {
	case n < -1:
		s.selected = len(s.filtered) - 1
	case n == -1:
		s.selected = -1
		return true
	default:
		s.selected = n
	}
	return false
}

// hover highlights row i without touching the text.
func (s *suggestions) hover(i int) {
	if i < 0 || i >= len(s.filtered) {
		return
	}
	s.selected = i
}
