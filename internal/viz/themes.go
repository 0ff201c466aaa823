package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view. Body, Particle and Guide color canvas layers.
type Theme struct {
	Name     string
	Body     lipgloss.Color
	Particle lipgloss.Color
	Guide    lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Body:     lipgloss.Color("#ff00ff"),
		Particle: lipgloss.Color("#00ffff"),
		Guide:    lipgloss.Color("#444466"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Body:     lipgloss.Color("#88ff88"),
		Particle: lipgloss.Color("#00cc00"),
		Guide:    lipgloss.Color("#005500"),
		Accent:   lipgloss.Color("#00ff00"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Body:     lipgloss.Color("#ffffff"),
		Particle: lipgloss.Color("#cccccc"),
		Guide:    lipgloss.Color("#444444"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Body:     lipgloss.Color("#ffd700"),
		Particle: lipgloss.Color("#00a8cc"),
		Guide:    lipgloss.Color("#224466"),
		Accent:   lipgloss.Color("#0077be"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Warning:  lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Body:     lipgloss.Color("#feca57"),
		Particle: lipgloss.Color("#ff9ff3"),
		Guide:    lipgloss.Color("#5b3b5c"),
		Accent:   lipgloss.Color("#ff6b6b"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Warning:  lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Layer returns the style used for canvas cells of layer l.
func (t Theme) Layer(l Layer) lipgloss.Style {
	switch l {
	case LayerBody:
		return lipgloss.NewStyle().Foreground(t.Body).Bold(true)
	case LayerParticle:
		return lipgloss.NewStyle().Foreground(t.Particle)
	case LayerGuide:
		return lipgloss.NewStyle().Foreground(t.Guide)
	default:
		return lipgloss.NewStyle()
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
