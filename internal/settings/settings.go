package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	appName  = "biblion"
	FileName = "config.toml"
)

type Settings struct {
	SelectedTranslation string `toml:"selected_translation"`
	CurrentBook         int    `toml:"current_book"`
	CurrentChapter      int    `toml:"current_chapter"`
	CurrentTheme        string `toml:"current_theme"` // theme key, see theme.GetTheme
	Language            string `toml:"language"`      // translation list filter, empty for all
	APIURL              string `toml:"api_url"`
	Input               Input  `toml:"input"`
}

// Input configures the search inputs.
type Input struct {
	Placeholder string `toml:"placeholder"`
	Width       int    `toml:"width"`
	Align       string `toml:"align"` // left, center or right
	MaxRows     int    `toml:"max_rows"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		SelectedTranslation: "KJV",
		CurrentBook:         1,
		CurrentChapter:      1,
		CurrentTheme:        "catppuccin-mocha",
		Language:            "English",
		APIURL:              "https://bolls.life",
		Input: Input{
			Placeholder: "Book chapter:verse, e.g. John 3:16",
			Width:       40,
			Align:       "left",
			MaxRows:     8,
		},
	}
}

// Dir returns the configuration directory, creating it if needed. The log
// file lives there too.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads the settings at path. A missing file yields the defaults and
// fields absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, err
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	s.fill()
	return s, nil
}

// fill replaces unusable values with defaults.
func (s *Settings) fill() {
	d := Default()
	if s.SelectedTranslation == "" {
		s.SelectedTranslation = d.SelectedTranslation
	}
	if s.CurrentBook < 1 {
		s.CurrentBook = d.CurrentBook
	}
	if s.CurrentChapter < 1 {
		s.CurrentChapter = d.CurrentChapter
	}
	if s.APIURL == "" {
		s.APIURL = d.APIURL
	}
	if s.Input.Width < 1 {
		s.Input.Width = d.Input.Width
	}
	if s.Input.MaxRows < 1 {
		s.Input.MaxRows = d.Input.MaxRows
	}
}

func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
