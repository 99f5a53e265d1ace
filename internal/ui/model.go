package ui

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"biblion/internal/api"
	"biblion/internal/autocomplete"
	"biblion/internal/settings"
	"biblion/internal/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

type viewMode int

const (
	modeReader viewMode = iota
	modeSearch
	modeTranslation
)

// Screen layout: a two-row header, the input while one is open, the chapter
// viewport, then help and status rows.
const (
	headerHeight = 2
	footerHeight = 2
	inputX       = 1
	maxTextWidth = 80
)

// now is the clock the inputs animate against.
var now = time.Now

type Model struct {
	client       *api.Client
	settings     settings.Settings
	settingsPath string
	theme        theme.Theme
	keys         keyMap
	help         help.Model
	viewport     viewport.Model

	search           autocomplete.Model
	searchValue      *autocomplete.Value
	translation      autocomplete.Model
	translationValue *autocomplete.Value

	translations []api.Translation
	books        []api.Book
	verses       []api.Verse
	bookName     string
	verse        int

	mode    viewMode
	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

type errMsg struct{ err error }
type translationsLoadedMsg struct{ translations []api.Translation }
type booksLoadedMsg struct {
	translation string
	books       []api.Book
}
type chapterLoadedMsg struct {
	translation string
	book        int
	chapter     int
	verses      []api.Verse
}
type referenceSubmittedMsg struct{ text string }
type translationSubmittedMsg struct{ text string }

func (e errMsg) Error() string { return e.err.Error() }

// NewModel builds the reader. Settings are written back to settingsPath on
// quit; an empty path disables saving.
func NewModel(client *api.Client, s settings.Settings, settingsPath string) Model {
	th := theme.GetTheme(s.CurrentTheme)

	searchValue := autocomplete.NewValue("")
	translationValue := autocomplete.NewValue("")
	inputOpts := []autocomplete.Option{
		autocomplete.WithWidth(s.Input.Width),
		autocomplete.WithMaxRows(s.Input.MaxRows),
		autocomplete.WithAlign(autocomplete.ParseAlign(s.Input.Align)),
		autocomplete.WithColors(th.Input()),
		autocomplete.WithClock(func() time.Time { return now() }),
	}

	search := autocomplete.New(searchValue, nil, append(inputOpts,
		autocomplete.WithPlaceholder(s.Input.Placeholder),
		autocomplete.WithOnSubmit(func(text string) tea.Cmd {
			return func() tea.Msg { return referenceSubmittedMsg{text} }
		}),
	)...)
	translation := autocomplete.New(translationValue, nil, append(inputOpts,
		autocomplete.WithPlaceholder("Translation, e.g. KJV"),
		autocomplete.WithOnSubmit(func(text string) tea.Cmd {
			return func() tea.Msg { return translationSubmittedMsg{text} }
		}),
	)...)
	search.SetOrigin(inputX, headerHeight)
	translation.SetOrigin(inputX, headerHeight)

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(th.Secondary)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(th.Muted)

	return Model{
		client:           client,
		settings:         s,
		settingsPath:     settingsPath,
		theme:            th,
		keys:             defaultKeyMap(),
		help:             h,
		search:           search,
		searchValue:      searchValue,
		translation:      translation,
		translationValue: translationValue,
		mode:             modeReader,
		loading:          true,
	}
}

func (m Model) Init() tea.Cmd {
	s := m.settings
	return tea.Batch(
		loadTranslations(m.client, s.Language),
		loadBooks(m.client, s.SelectedTranslation, false),
		loadChapter(m.client, s.SelectedTranslation, s.CurrentBook, s.CurrentChapter),
	)
}

func loadTranslations(client *api.Client, language string) tea.Cmd {
	return func() tea.Msg {
		translations, err := client.GetTranslations(language)
		if errors.Is(err, api.ErrOffline) {
			log.Printf("translations: %v", err)
			return translationsLoadedMsg{translations}
		}
		if err != nil {
			return errMsg{fmt.Errorf("load translations: %w", err)}
		}
		return translationsLoadedMsg{translations}
	}
}

func loadBooks(client *api.Client, translation string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		get := client.GetBooks
		if refresh {
			get = client.RefreshBooks
		}
		books, err := get(translation)
		if err != nil && len(books) == 0 {
			return errMsg{fmt.Errorf("load books of %s: %w", translation, err)}
		}
		if err != nil {
			log.Printf("books of %s: %v", translation, err)
		}
		return booksLoadedMsg{translation, books}
	}
}

func loadChapter(client *api.Client, translation string, book, chapter int) tea.Cmd {
	return func() tea.Msg {
		verses, err := client.GetChapter(translation, book, chapter)
		if err != nil {
			return errMsg{fmt.Errorf("load %s %d:%d: %w", translation, book, chapter, err)}
		}
		return chapterLoadedMsg{translation, book, chapter, verses}
	}
}

// active returns the input of the current mode, or nil in reader mode.
func (m *Model) active() *autocomplete.Model {
	switch m.mode {
	case modeSearch:
		return &m.search
	case modeTranslation:
		return &m.translation
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if in := m.active(); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			if !in.Consumed() && key.Matches(msg, in.KeyMap.Cancel) {
				cmd = tea.Batch(cmd, m.leaveInput())
			}
			return m, cmd
		}
		return m.handleReaderKey(msg)

	case tea.MouseMsg:
		if in := m.active(); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			cmds = append(cmds, cmd)
			if !in.Focused() {
				cmds = append(cmds, m.leaveInput())
			}
			if in.Consumed() {
				return m, tea.Batch(cmds...)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 1)
			m.ready = true
		}
		m.help.Width = msg.Width
		m.resize()
		m.render()
		return m, nil

	case translationsLoadedMsg:
		m.translations = msg.translations
		m.translation.SetCandidates(api.ShortNames(msg.translations))

	case booksLoadedMsg:
		if msg.translation != m.settings.SelectedTranslation {
			return m, nil
		}
		m.books = msg.books
		m.search.SetCandidates(api.BookNames(msg.books))
		m.bookName = m.lookupBookName()
		m.render()

	case chapterLoadedMsg:
		s := m.settings
		if msg.translation != s.SelectedTranslation || msg.book != s.CurrentBook || msg.chapter != s.CurrentChapter {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.verses = msg.verses
		m.render()

	case referenceSubmittedMsg:
		return m, m.goTo(msg.text)

	case translationSubmittedMsg:
		return m, m.selectTranslation(msg.text)

	case errMsg:
		log.Printf("error: %v", msg.err)
		m.err = msg.err
		m.loading = false
		return m, nil
	}

	// Animation frames and cursor blinks are routed to both inputs so a
	// closing popup finishes even after its mode is left.
	if _, ok := msg.(tea.MouseMsg); !ok {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		cmds = append(cmds, cmd)
		m.translation, cmd = m.translation.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Search):
		return m, m.enterInput(modeSearch)
	case key.Matches(msg, m.keys.Translation):
		return m, m.enterInput(modeTranslation)
	case key.Matches(msg, m.keys.Next):
		if b, ok := m.currentBook(); ok && m.settings.CurrentChapter < b.Chapters {
			return m, m.open(m.settings.CurrentBook, m.settings.CurrentChapter+1, 0)
		}
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		if m.settings.CurrentChapter > 1 {
			return m, m.open(m.settings.CurrentBook, m.settings.CurrentChapter-1, 0)
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, loadBooks(m.client, m.settings.SelectedTranslation, true)
	case key.Matches(msg, m.keys.Theme):
		m.setTheme(theme.Next(m.theme.Key))
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) enterInput(mode viewMode) tea.Cmd {
	m.mode = mode
	in := m.active()
	in.Reset()
	m.resize()
	return in.Focus()
}

// leaveInput returns to the reader. An input that is still focused is
// dismissed so its popup fades out over the reader.
func (m *Model) leaveInput() tea.Cmd {
	var cmd tea.Cmd
	if in := m.active(); in != nil && in.Focused() {
		cmd = in.Dismiss()
	}
	m.mode = modeReader
	m.resize()
	return cmd
}

// goTo opens the chapter named by a reference typed into the search input.
func (m *Model) goTo(text string) tea.Cmd {
	ref, err := parseReference(text, m.books)
	if err != nil {
		log.Printf("reference %q: %v", text, err)
		m.err = err
		return nil
	}
	log.Printf("go to %s %d:%d", ref.book.Name, ref.chapter, ref.verse)
	return tea.Batch(m.leaveInput(), m.open(ref.book.BookID, ref.chapter, ref.verse))
}

func (m *Model) selectTranslation(text string) tea.Cmd {
	t, ok := resolveTranslation(text, m.translations)
	if !ok {
		m.err = fmt.Errorf("unknown translation %q", text)
		return nil
	}
	log.Printf("translation %s", t.ShortName)
	leave := m.leaveInput()
	m.settings.SelectedTranslation = t.ShortName
	m.loading = true
	m.err = nil
	return tea.Batch(
		leave,
		loadBooks(m.client, t.ShortName, false),
		loadChapter(m.client, t.ShortName, m.settings.CurrentBook, m.settings.CurrentChapter),
	)
}

func (m *Model) open(book, chapter, verse int) tea.Cmd {
	m.settings.CurrentBook = book
	m.settings.CurrentChapter = chapter
	m.verse = verse
	m.bookName = m.lookupBookName()
	m.loading = true
	return loadChapter(m.client, m.settings.SelectedTranslation, book, chapter)
}

func (m *Model) setTheme(t theme.Theme) {
	m.theme = t
	m.settings.CurrentTheme = t.Key
	m.search.SetColors(t.Input())
	m.translation.SetColors(t.Input())
	m.help.Styles.ShortKey = m.help.Styles.ShortKey.Foreground(t.Secondary)
	m.help.Styles.ShortDesc = m.help.Styles.ShortDesc.Foreground(t.Muted)
	m.render()
}

func (m *Model) quit() tea.Cmd {
	if m.settingsPath != "" {
		if err := settings.Save(m.settingsPath, m.settings); err != nil {
			log.Printf("save settings: %v", err)
		} else {
			log.Printf("settings saved to %s", m.settingsPath)
		}
	}
	return tea.Quit
}

func (m Model) currentBook() (api.Book, bool) {
	for _, b := range m.books {
		if b.BookID == m.settings.CurrentBook {
			return b, true
		}
	}
	return api.Book{}, false
}

func (m Model) lookupBookName() string {
	if b, ok := m.currentBook(); ok {
		return b.Name
	}
	return fmt.Sprintf("Book %d", m.settings.CurrentBook)
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	h := m.height - headerHeight - footerHeight
	if m.mode != modeReader {
		h -= autocomplete.Height
	}
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// render refreshes the viewport content and scrolls to the target verse.
func (m *Model) render() {
	if !m.ready {
		return
	}
	content, line := formatChapter(m.verses, m.verse, m.textWidth(), m.theme)
	m.viewport.SetContent(content)
	if line > 0 {
		m.viewport.SetYOffset(line)
	} else {
		m.viewport.GotoTop()
	}
}

func (m Model) textWidth() int {
	w := m.width - 6
	if w > maxTextWidth {
		w = maxTextWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	t := m.theme

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)

	var title string
	switch m.mode {
	case modeSearch:
		title = "Go to - book chapter:verse"
	case modeTranslation:
		title = "Select translation - current: " + m.settings.SelectedTranslation
	default:
		title = fmt.Sprintf("%s  %s %d", m.settings.SelectedTranslation, m.bookName, m.settings.CurrentChapter)
	}

	parts := []string{headerStyle.Render(title)}
	in := m.active()
	if in != nil {
		parts = append(parts, lipgloss.NewStyle().PaddingLeft(inputX).Render(in.InputView()))
	}
	parts = append(parts, m.viewport.View())

	if in != nil {
		parts = append(parts, m.help.View(in.KeyMap))
	} else {
		parts = append(parts, m.help.View(m.keys))
	}

	status := lipgloss.NewStyle().Foreground(t.Muted)
	switch {
	case m.err != nil:
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Error: "+m.err.Error()))
	case m.loading:
		parts = append(parts, status.Render("Loading..."))
	default:
		parts = append(parts, status.Render(t.Name))
	}

	view := strings.Join(parts, "\n")
	for _, p := range m.popups() {
		if popup := p.PopupView(); popup != "" {
			x, y := p.PopupOffset()
			view = overlay.Composite(popup, view, overlay.Left, overlay.Top, x, y)
		}
	}
	return view
}

// popups returns the inputs with a popup on screen: the active one, and any
// input whose popup is still fading out after it was left.
func (m Model) popups() []autocomplete.Model {
	var out []autocomplete.Model
	for _, in := range []autocomplete.Model{m.search, m.translation} {
		if in.PopupVisible() {
			out = append(out, in)
		}
	}
	return out
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTMLTags(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

// formatChapter renders verses for the viewport and returns the line where
// verse target starts, or 0.
func formatChapter(verses []api.Verse, target, width int, t theme.Theme) (string, int) {
	verseStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	textStyle := lipgloss.NewStyle().Foreground(t.Primary).Width(width)
	targetStyle := textStyle.Background(t.Highlight)

	var sb strings.Builder
	var line, targetLine int
	for _, v := range verses {
		style := textStyle
		if v.Verse == target {
			style = targetStyle
			targetLine = line
		}
		block := fmt.Sprintf("%s  %s", verseStyle.Render(fmt.Sprintf("%3d", v.Verse)), style.Render(stripHTMLTags(v.Text)))
		sb.WriteString(block)
		sb.WriteString("\n\n")
		line += lipgloss.Height(block) + 1
	}
	return sb.String(), targetLine
}
