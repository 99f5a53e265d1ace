package theme

import (
	"biblion/internal/autocomplete"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the application. All colors are hex
// values so inputs can blend them.
type Theme struct {
	Key  string
	Name string

	// Text colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color

	// UI element colors
	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Background   lipgloss.Color
	Highlight    lipgloss.Color
	Selection    lipgloss.Color
}

var (
	CatppuccinMocha = Theme{
		Key:          "catppuccin-mocha",
		Name:         "Catppuccin Mocha",
		Primary:      lipgloss.Color("#cdd6f4"),
		Secondary:    lipgloss.Color("#a6adc8"),
		Accent:       lipgloss.Color("#f5c2e7"),
		Muted:        lipgloss.Color("#6c7086"),
		Error:        lipgloss.Color("#f38ba8"),
		Border:       lipgloss.Color("#45475a"),
		BorderActive: lipgloss.Color("#89b4fa"),
		Background:   lipgloss.Color("#313244"),
		Highlight:    lipgloss.Color("#45475a"),
		Selection:    lipgloss.Color("#585b70"),
	}

	CatppuccinLatte = Theme{
		Key:          "catppuccin-latte",
		Name:         "Catppuccin Latte",
		Primary:      lipgloss.Color("#4c4f69"),
		Secondary:    lipgloss.Color("#5c5f77"),
		Accent:       lipgloss.Color("#ea76cb"),
		Muted:        lipgloss.Color("#9ca0b0"),
		Error:        lipgloss.Color("#d20f39"),
		Border:       lipgloss.Color("#dce0e8"),
		BorderActive: lipgloss.Color("#1e66f5"),
		Background:   lipgloss.Color("#e6e9ef"),
		Highlight:    lipgloss.Color("#ccd0da"),
		Selection:    lipgloss.Color("#acb0be"),
	}

	Dracula = Theme{
		Key:          "dracula",
		Name:         "Dracula",
		Primary:      lipgloss.Color("#f8f8f2"),
		Secondary:    lipgloss.Color("#6272a4"),
		Accent:       lipgloss.Color("#ff79c6"),
		Muted:        lipgloss.Color("#6272a4"),
		Error:        lipgloss.Color("#ff5555"),
		Border:       lipgloss.Color("#44475a"),
		BorderActive: lipgloss.Color("#bd93f9"),
		Background:   lipgloss.Color("#282a36"),
		Highlight:    lipgloss.Color("#44475a"),
		Selection:    lipgloss.Color("#6272a4"),
	}

	RosePineMoon = Theme{
		Key:          "rosepine-moon",
		Name:         "Rosé Pine Moon",
		Primary:      lipgloss.Color("#e0def4"),
		Secondary:    lipgloss.Color("#908caa"),
		Accent:       lipgloss.Color("#ebbcba"),
		Muted:        lipgloss.Color("#6e6a86"),
		Error:        lipgloss.Color("#eb6f92"),
		Border:       lipgloss.Color("#403d52"),
		BorderActive: lipgloss.Color("#c4a7e7"),
		Background:   lipgloss.Color("#2a273f"),
		Highlight:    lipgloss.Color("#393552"),
		Selection:    lipgloss.Color("#44415a"),
	}

	RosePineDawn = Theme{
		Key:          "rosepine-dawn",
		Name:         "Rosé Pine Dawn",
		Primary:      lipgloss.Color("#575279"),
		Secondary:    lipgloss.Color("#797593"),
		Accent:       lipgloss.Color("#d7827e"),
		Muted:        lipgloss.Color("#9893a5"),
		Error:        lipgloss.Color("#b4637a"),
		Border:       lipgloss.Color("#f2e9e1"),
		BorderActive: lipgloss.Color("#907aa9"),
		Background:   lipgloss.Color("#faf4ed"),
		Highlight:    lipgloss.Color("#f2e9e1"),
		Selection:    lipgloss.Color("#dfdad9"),
	}

	SolarizedDark = Theme{
		Key:          "solarized-dark",
		Name:         "Solarized Dark",
		Primary:      lipgloss.Color("#839496"),
		Secondary:    lipgloss.Color("#586e75"),
		Accent:       lipgloss.Color("#d33682"),
		Muted:        lipgloss.Color("#586e75"),
		Error:        lipgloss.Color("#dc322f"),
		Border:       lipgloss.Color("#073642"),
		BorderActive: lipgloss.Color("#268bd2"),
		Background:   lipgloss.Color("#002b36"),
		Highlight:    lipgloss.Color("#073642"),
		Selection:    lipgloss.Color("#274642"),
	}

	SolarizedLight = Theme{
		Key:          "solarized-light",
		Name:         "Solarized Light",
		Primary:      lipgloss.Color("#657b83"),
		Secondary:    lipgloss.Color("#93a1a1"),
		Accent:       lipgloss.Color("#d33682"),
		Muted:        lipgloss.Color("#93a1a1"),
		Error:        lipgloss.Color("#dc322f"),
		Border:       lipgloss.Color("#eee8d5"),
		BorderActive: lipgloss.Color("#268bd2"),
		Background:   lipgloss.Color("#fdf6e3"),
		Highlight:    lipgloss.Color("#eee8d5"),
		Selection:    lipgloss.Color("#e4dcc5"),
	}
)

var all = []Theme{
	CatppuccinMocha,
	CatppuccinLatte,
	Dracula,
	RosePineMoon,
	RosePineDawn,
	SolarizedDark,
	SolarizedLight,
}

// AllThemes returns every theme in cycling order.
func AllThemes() []Theme {
	return append([]Theme(nil), all...)
}

// GetTheme returns a theme by key, defaulting to Catppuccin Mocha.
func GetTheme(key string) Theme {
	for _, t := range all {
		if t.Key == key {
			return t
		}
	}
	return CatppuccinMocha
}

// Next returns the theme after key, wrapping around.
func Next(key string) Theme {
	for i, t := range all {
		if t.Key == key {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Input maps the theme onto the palette of an autocomplete input.
func (t Theme) Input() autocomplete.Colors {
	return autocomplete.Colors{
		Text:            t.Primary,
		Placeholder:     t.Muted,
		Background:      t.Background,
		HoverBackground: t.Highlight,
		Border:          t.Border,
		FocusBorder:     t.BorderActive,
		Selection:       t.Selection,
		Highlight:       t.Selection,
	}
}
