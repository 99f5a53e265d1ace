package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"biblion/internal/api"
)

// Catalog keeps the book list of each translation as a JSON file, so book
// names are available to the search input before the network answers.
type Catalog struct {
	dir string
}

var _ api.BookCache = (*Catalog)(nil)

// DefaultDir returns the per-user catalog directory.
func DefaultDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "biblion", "books"), nil
}

// NewCatalog opens a catalog rooted at dir, creating it if needed.
func NewCatalog(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	return &Catalog{dir: dir}, nil
}

func (c *Catalog) path(translation string) string {
	return filepath.Join(c.dir, translation+".json")
}

// Books returns the cached book list of a translation. Unreadable entries
// count as missing.
func (c *Catalog) Books(translation string) ([]api.Book, bool) {
	data, err := os.ReadFile(c.path(translation))
	if err != nil {
		return nil, false
	}
	var books []api.Book
	if err := json.Unmarshal(data, &books); err != nil || len(books) == 0 {
		return nil, false
	}
	return books, true
}

// StoreBooks writes the book list of a translation.
func (c *Catalog) StoreBooks(translation string, books []api.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return err
	}
	tmp := c.path(translation) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path(translation))
}

// Translations lists the translations with a cached book list.
func (c *Catalog) Translations() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

// Remove drops one translation's entry.
func (c *Catalog) Remove(translation string) error {
	err := os.Remove(c.path(translation))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
