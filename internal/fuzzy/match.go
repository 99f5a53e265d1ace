// Package fuzzy filters suggestion candidates against typed text.
//
// Matching is a substring test after folding case and the common Latin
// accents, so "mexico" finds "México" and "genesis" finds "Génesis".
package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// foldedMark reports whether r is one of the combining marks stripped from
// Latin letters after decomposition: grave, acute, circumflex, tilde and
// diaeresis.
func foldedMark(r rune) bool {
	switch r {
	case '\u0300', '\u0301', '\u0302', '\u0303', '\u0308':
		return true
	}
	return false
}

// Normalize lowercases s and strips accents from Latin letters. Marks on
// other scripts are kept, so Cyrillic ё stays distinct from е.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	decomposed := norm.NFD.String(cases.Lower(language.Und).String(s))

	var sb strings.Builder
	sb.Grow(len(decomposed))
	var base rune
	for _, r := range decomposed {
		if foldedMark(r) && unicode.Is(unicode.Latin, base) {
			continue
		}
		if !unicode.Is(unicode.Mn, r) {
			base = r
		}
		sb.WriteRune(r)
	}
	return norm.NFC.String(sb.String())
}

// Match reports whether candidate contains query once both are normalized.
// A candidate identical to the query is not a match: it adds nothing once
// typed in full.
func Match(candidate, query string) bool {
	return strings.Contains(Normalize(candidate), Normalize(query)) && candidate != query
}

// Filter returns the candidates matching query, in their original order.
// An empty query matches nothing.
func Filter(candidates []string, query string) []string {
	if query == "" {
		return nil
	}
	q := Normalize(query)
	var out []string
	for _, c := range candidates {
		if c == query {
			continue
		}
		if strings.Contains(Normalize(c), q) {
			out = append(out, c)
		}
	}
	return out
}

// CutPrefixFold reports whether s starts with prefix ignoring case and, if
// so, returns the rest of s in its original case.
func CutPrefixFold(s, prefix string) (string, bool) {
	rest := s
	for _, p := range prefix {
		r, size := utf8.DecodeRuneInString(rest)
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(p) {
			return "", false
		}
		rest = rest[size:]
	}
	return rest, true
}
