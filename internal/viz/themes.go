package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view.
type Theme struct {
	Name     string
	Particle lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Particle: lipgloss.Color("#00ffff"),
		Accent:   lipgloss.Color("#ff00ff"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Particle: lipgloss.Color("#00ff00"), // green phosphor
		Accent:   lipgloss.Color("#88ff88"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Particle: lipgloss.Color("#ff6b6b"),
		Accent:   lipgloss.Color("#feca57"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Warning:  lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme cycles through Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
