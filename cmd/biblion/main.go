package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"biblion/internal/api"
	"biblion/internal/cache"
	"biblion/internal/settings"
	"biblion/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := settings.Dir()
	if err != nil {
		return err
	}

	if os.Getenv("BIBLION_DEBUG") != "" {
		f, err := tea.LogToFile(filepath.Join(dir, "biblion.log"), "biblion")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	path := filepath.Join(dir, settings.FileName)
	s, err := settings.Load(path)
	if err != nil {
		log.Printf("settings: %v, using defaults", err)
	}

	client := api.NewClient()
	client.SetBaseURL(s.APIURL)
	if cacheDir, err := cache.DefaultDir(); err == nil {
		if catalog, err := cache.NewCatalog(cacheDir); err == nil {
			client.SetCache(catalog)
		} else {
			log.Printf("book catalog: %v", err)
		}
	}

	p := tea.NewProgram(
		ui.NewModel(client, s, path),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = p.Run()
	return err
}
