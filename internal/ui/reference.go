package ui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"biblion/internal/api"
	"biblion/internal/fuzzy"
)

var chapterVerseRe = regexp.MustCompile(`^(\d+)(?::(\d+))?$`)

type reference struct {
	book    api.Book
	chapter int
	verse   int
}

// parseReference reads "<book> [chapter[:verse]]". The book is a name, an
// unambiguous part of one, or a numeric id.
func parseReference(ref string, books []api.Book) (reference, error) {
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return reference{}, fmt.Errorf("empty reference")
	}

	r := reference{chapter: 1}
	if len(fields) > 1 {
		if m := chapterVerseRe.FindStringSubmatch(fields[len(fields)-1]); m != nil {
			r.chapter, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				r.verse, _ = strconv.Atoi(m[2])
			}
			fields = fields[:len(fields)-1]
		}
	}

	book, err := resolveBook(strings.Join(fields, " "), books)
	if err != nil {
		return reference{}, err
	}
	r.book = book

	if r.chapter < 1 || (book.Chapters > 0 && r.chapter > book.Chapters) {
		return reference{}, fmt.Errorf("%s has no chapter %d", book.Name, r.chapter)
	}
	return r, nil
}

// resolveBook finds a book by id, then by accent and case insensitive name,
// then by the first name containing it.
func resolveBook(name string, books []api.Book) (api.Book, error) {
	if id, err := strconv.Atoi(name); err == nil {
		for _, b := range books {
			if b.BookID == id {
				return b, nil
			}
		}
		return api.Book{}, fmt.Errorf("no book with id %d", id)
	}

	want := fuzzy.Normalize(name)
	for _, b := range books {
		if fuzzy.Normalize(b.Name) == want {
			return b, nil
		}
	}

	if matches := fuzzy.Filter(api.BookNames(books), name); len(matches) > 0 {
		for _, b := range books {
			if b.Name == matches[0] {
				return b, nil
			}
		}
	}
	return api.Book{}, fmt.Errorf("unknown book %q", name)
}

// resolveTranslation finds a translation by short name, then by the first
// short or full name containing the text.
func resolveTranslation(text string, translations []api.Translation) (api.Translation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return api.Translation{}, false
	}
	for _, t := range translations {
		if strings.EqualFold(t.ShortName, text) {
			return t, true
		}
	}
	for _, t := range translations {
		if fuzzy.Match(t.ShortName, text) || fuzzy.Match(t.FullName, text) {
			return t, true
		}
	}
	return api.Translation{}, false
}
