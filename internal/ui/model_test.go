package ui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"biblion/internal/anim"
	"biblion/internal/api"
	"biblion/internal/cache"
	"biblion/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBooks = []api.Book{
	{BookID: 1, Name: "Génesis", Chapters: 50},
	{BookID: 2, Name: "Éxodo", Chapters: 40},
	{BookID: 43, Name: "Juan", Chapters: 21},
	{BookID: 62, Name: "1 Juan", Chapters: 5},
	{BookID: 63, Name: "2 Juan", Chapters: 1},
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		in      string
		book    int
		chapter int
		verse   int
	}{
		{"Juan 3:16", 43, 3, 16},
		{"juan 3", 43, 3, 0},
		{"Juan", 43, 1, 0},
		{"1 Juan", 62, 1, 0},
		{"1 juan 2:3", 62, 2, 3},
		{"genesis 1:1", 1, 1, 1},
		{"EXODO 20", 2, 20, 0},
		{"gén 3", 1, 3, 0},
		{"43 3:16", 43, 3, 16},
		{"  Juan   3:16 ", 43, 3, 16},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, err := parseReference(tt.in, testBooks)
			require.NoError(t, err)
			assert.Equal(t, tt.book, ref.book.BookID)
			assert.Equal(t, tt.chapter, ref.chapter)
			assert.Equal(t, tt.verse, ref.verse)
		})
	}
}

func TestParseReferenceErrors(t *testing.T) {
	for _, in := range []string{"", "Apocalipsis 1", "Juan 22", "2 Juan 0", "99 1"} {
		_, err := parseReference(in, testBooks)
		assert.Error(t, err, in)
	}
}

func TestResolveTranslation(t *testing.T) {
	translations := []api.Translation{
		{ShortName: "KJV", FullName: "King James Version"},
		{ShortName: "RV1960", FullName: "Reina-Valera 1960"},
	}
	got, ok := resolveTranslation("kjv", translations)
	require.True(t, ok)
	assert.Equal(t, "KJV", got.ShortName)

	got, ok = resolveTranslation("valera", translations)
	require.True(t, ok)
	assert.Equal(t, "RV1960", got.ShortName)

	_, ok = resolveTranslation("nope", translations)
	assert.False(t, ok)
}

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), settings.FileName)
	m := NewModel(api.NewClient(), settings.Default(), path)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, booksLoadedMsg{translation: "KJV", books: testBooks})
	m = update(t, m, translationsLoadedMsg{[]api.Translation{{ShortName: "KJV"}, {ShortName: "WEB"}}})
	return m, path
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestSearchFlow(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, runes("/"))
	require.Equal(t, modeSearch, m.mode)
	assert.True(t, m.search.Focused())

	for _, r := range "jua" {
		m = update(t, m, runes(string(r)))
	}
	assert.Equal(t, "jua", m.searchValue.Get())
	assert.Equal(t, modeSearch, m.mode, "letters go to the input, not the reader keys")
	assert.Contains(t, m.View(), "1 Juan", "popup is drawn over the reader")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.NotNil(t, cmd)

	m = update(t, m, referenceSubmittedMsg{"Juan 3:16"})
	assert.Equal(t, modeReader, m.mode)
	assert.Equal(t, 43, m.settings.CurrentBook)
	assert.Equal(t, 3, m.settings.CurrentChapter)
	assert.Equal(t, 16, m.verse)
	assert.Equal(t, "Juan", m.bookName)
	assert.True(t, m.loading)
	assert.False(t, m.search.Focused())
}

func TestBadReferenceStaysInSearch(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("/"))
	m = update(t, m, referenceSubmittedMsg{"Hechos 2"})
	assert.Equal(t, modeSearch, m.mode)
	assert.Error(t, m.err)
}

func TestEscapeLeavesInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("t"))
	require.Equal(t, modeTranslation, m.mode)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeReader, m.mode)
	assert.False(t, m.translation.Focused())
}

func TestReopenedInputStartsEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("/"))
	m = update(t, m, runes("x"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, runes("/"))
	assert.Equal(t, "", m.searchValue.Get())
	assert.False(t, m.search.CanUndo())
}

func TestTranslationSubmit(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, runes("t"))
	m = update(t, m, translationSubmittedMsg{"web"})
	assert.Equal(t, modeReader, m.mode)
	assert.Equal(t, "WEB", m.settings.SelectedTranslation)

	m = update(t, m, booksLoadedMsg{translation: "KJV", books: nil})
	assert.Len(t, m.books, len(testBooks), "stale book list is ignored")
}

func TestChapterNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, chapterLoadedMsg{"KJV", 1, 1, []api.Verse{{Verse: 1, Text: "In the <i>beginning</i>"}}})
	assert.False(t, m.loading)
	assert.Contains(t, m.viewport.View(), "In the beginning")

	m = update(t, m, runes("p"))
	assert.Equal(t, 1, m.settings.CurrentChapter, "no chapter before the first")

	m = update(t, m, runes("n"))
	assert.Equal(t, 2, m.settings.CurrentChapter)

	m = update(t, m, chapterLoadedMsg{"KJV", 1, 1, []api.Verse{{Verse: 1, Text: "stale"}}})
	assert.True(t, m.loading, "a reply for another chapter is dropped")
}

func TestThemeCycleAndQuitSaves(t *testing.T) {
	m, path := newTestModel(t)
	before := m.theme.Key

	m = update(t, m, runes("s"))
	assert.NotEqual(t, before, m.theme.Key)
	assert.Equal(t, m.theme.Key, m.settings.CurrentTheme)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	saved, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.theme.Key, saved.CurrentTheme)
}

func TestErrorShownInStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, errMsg{errors.New("boom")})
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Error: boom")
}

func TestFormatChapterTargetLine(t *testing.T) {
	verses := []api.Verse{{Verse: 1, Text: "a"}, {Verse: 2, Text: "b"}, {Verse: 3, Text: "c"}}
	_, line := formatChapter(verses, 3, 40, m0().theme)
	assert.Equal(t, 4, line)

	_, line = formatChapter(verses, 0, 40, m0().theme)
	assert.Equal(t, 0, line)
}

func m0() Model {
	return NewModel(api.NewClient(), settings.Default(), "")
}

// fakeNow pins the input clock for the test and returns a func that moves it.
func fakeNow(t *testing.T) func(time.Duration) {
	t.Helper()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return clock }
	t.Cleanup(func() { now = time.Now })
	return func(d time.Duration) { clock = clock.Add(d) }
}

type tickMsg struct{}

func TestEscapeFadesPopupOverReader(t *testing.T) {
	advance := fakeNow(t)
	m, _ := newTestModel(t)
	m = update(t, m, runes("/"))
	for _, r := range "juan" {
		m = update(t, m, runes(string(r)))
	}
	advance(anim.Duration)
	m = update(t, m, tickMsg{})
	require.True(t, m.search.PopupVisible())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeReader, m.mode)
	assert.False(t, m.search.Focused())
	assert.True(t, m.search.PopupVisible(), "popup starts closing, not gone")

	advance(anim.Duration / 2)
	m = update(t, m, tickMsg{})
	assert.True(t, m.search.Animating())
	assert.Contains(t, m.View(), "1 Juan", "mid-fade popup is drawn over the reader")

	advance(anim.Duration)
	m = update(t, m, tickMsg{})
	assert.False(t, m.search.PopupVisible())
	assert.NotContains(t, m.View(), "1 Juan")
}

func TestSubmitFadesPopupOverReader(t *testing.T) {
	advance := fakeNow(t)
	m, _ := newTestModel(t)
	m = update(t, m, runes("/"))
	for _, r := range "juan" {
		m = update(t, m, runes(string(r)))
	}
	advance(anim.Duration)
	m = update(t, m, tickMsg{})

	next, cmd := m.Update(referenceSubmittedMsg{"1 Juan 1"})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, modeReader, m.mode)
	assert.Equal(t, 62, m.settings.CurrentBook)
	assert.False(t, m.search.Focused())
	assert.True(t, m.search.Animating())

	advance(anim.Duration / 2)
	m = update(t, m, tickMsg{})
	assert.Contains(t, m.View(), "2 Juan")
}

func TestRefreshKeyReloadsBooks(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(runes("r"))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "reload books")
}

func TestTranslationsFromCatalogWhenOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	catalog, err := cache.NewCatalog(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, catalog.StoreBooks("WEB", testBooks))

	client := api.NewClient()
	client.SetBaseURL(srv.URL + "/")
	client.SetCache(catalog)

	msg := loadTranslations(client, "English")()
	loaded, ok := msg.(translationsLoadedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, []string{"WEB"}, api.ShortNames(loaded.translations))

	require.NoError(t, catalog.Remove("WEB"))
	_, ok = loadTranslations(client, "English")().(errMsg)
	assert.True(t, ok, "no catalog entries leaves the error")
}
