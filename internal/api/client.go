package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://bolls.life"

// BookCache stores book lists per translation so the search input can be
// filled without a round trip.
type BookCache interface {
	Books(translation string) ([]Book, bool)
	StoreBooks(translation string, books []Book) error
	Remove(translation string) error
	Translations() ([]string, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      BookCache
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

func (c *Client) SetCache(cache BookCache) {
	c.cache = cache
}

// SetBaseURL points the client at another server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

type Translation struct {
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Updated   int64  `json:"updated"`
	Dir       string `json:"dir,omitempty"`
}

type LanguageGroup struct {
	Language     string        `json:"language"`
	Translations []Translation `json:"translations"`
}

type Book struct {
	BookID     int    `json:"bookid"`
	ChronOrder int    `json:"chronorder"`
	Name       string `json:"name"`
	Chapters   int    `json:"chapters"`
}

type Verse struct {
	PK          int    `json:"pk"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Book        int    `json:"book,omitempty"`
	Chapter     int    `json:"chapter,omitempty"`
}

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Code)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

func (c *Client) getJSON(path string, v any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ErrOffline marks results served from the cache because the server could
// not be reached.
var ErrOffline = errors.New("serving cached data")

// cachedTranslations lists translations known only by their short names
// from the book cache.
func (c *Client) cachedTranslations() []Translation {
	if c.cache == nil {
		return nil
	}
	names, err := c.cache.Translations()
	if err != nil {
		return nil
	}
	out := make([]Translation, len(names))
	for i, n := range names {
		out[i] = Translation{ShortName: n}
	}
	return out
}

// GetTranslations lists the translations of one language, or of every
// language when language is empty.
func (c *Client) GetTranslations(language string) ([]Translation, error) {
	var groups []LanguageGroup
	if err := c.getJSON("/static/bolls/app/views/languages.json", &groups); err != nil {
		if cached := c.cachedTranslations(); len(cached) > 0 {
			return cached, fmt.Errorf("%w: %w", ErrOffline, err)
		}
		return nil, err
	}

	var out []Translation
	for _, group := range groups {
		if language == "" || strings.EqualFold(group.Language, language) {
			out = append(out, group.Translations...)
		}
	}
	return out, nil
}

// GetBooks returns the books of a translation, from the cache when it has
// them. Fresh lists are written back to the cache.
func (c *Client) GetBooks(translation string) ([]Book, error) {
	if c.cache != nil {
		if books, ok := c.cache.Books(translation); ok {
			return books, nil
		}
	}

	var books []Book
	if err := c.getJSON(fmt.Sprintf("/get-books/%s/", translation), &books); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.StoreBooks(translation, books); err != nil {
			return books, fmt.Errorf("cache books: %w", err)
		}
	}
	return books, nil
}

// RefreshBooks drops the cached book list of a translation and fetches it
// again.
func (c *Client) RefreshBooks(translation string) ([]Book, error) {
	if c.cache != nil {
		if err := c.cache.Remove(translation); err != nil {
			return nil, fmt.Errorf("drop cached books: %w", err)
		}
	}
	return c.GetBooks(translation)
}

func (c *Client) GetChapter(translation string, book, chapter int) ([]Verse, error) {
	var verses []Verse
	if err := c.getJSON(fmt.Sprintf("/get-text/%s/%d/%d/", translation, book, chapter), &verses); err != nil {
		return nil, err
	}
	return verses, nil
}

// BookNames returns the names of books in order.
func BookNames(books []Book) []string {
	names := make([]string, len(books))
	for i, b := range books {
		names[i] = b.Name
	}
	return names
}

// ShortNames returns the short names of translations in order.
func ShortNames(translations []Translation) []string {
	names := make([]string, len(translations))
	for i, t := range translations {
		names[i] = t.ShortName
	}
	return names
}
