package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s := Default()
	s.SelectedTranslation = "RV1960"
	s.CurrentBook = 43
	s.CurrentChapter = 3
	s.CurrentTheme = "dracula"
	s.Input.Align = "center"
	s.APIURL = "http://localhost:8000"

	require.NoError(t, Save(path, s))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "selected_translation = \"WEB\"\ncurrent_chapter = 0\n\n[input]\nwidth = 24\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "WEB", s.SelectedTranslation)
	assert.Equal(t, 1, s.CurrentChapter, "invalid chapter falls back")
	assert.Equal(t, 24, s.Input.Width)
	assert.Equal(t, Default().Input.Placeholder, s.Input.Placeholder)
	assert.Equal(t, Default().Input.MaxRows, s.Input.MaxRows)
	assert.Equal(t, Default().APIURL, s.APIURL)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("current_book = ["), 0o644))

	s, err := Load(path)
	assert.ErrorContains(t, err, "parse")
	assert.Equal(t, Default(), s)
}
