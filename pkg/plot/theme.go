package plot

import (
	"fmt"
	"strings"
)

// Theme is a chart color theme.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds the chart colors of a theme.
type ThemeConfig struct {
	Background string
	Grid       string
	Axis       string
	Text       string
	TextMuted  string

	// Series colors: degrees, gaps, and the watermark-violating highlight.
	Degree string
	Gap    string
	Late   string
}

// ParseTheme validates a theme name. An empty name selects ThemeLight.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	case "":
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

var lightTheme = ThemeConfig{
	Background: "#ffffff",
	Grid:       "#e7e5e4", // stone-200.
	Axis:       "#a8a29e", // stone-400.
	Text:       "#44403c", // stone-700.
	TextMuted:  "#78716c", // stone-500.

	Degree: "#0369a1", // sky-700.
	Gap:    "#a16207", // amber-700.
	Late:   "#dc2626", // red-600.
}

var darkTheme = ThemeConfig{
	Background: "#1c1917", // stone-900.
	Grid:       "#44403c", // stone-700.
	Axis:       "#57534e", // stone-600.
	Text:       "#d6d3d1", // stone-300.
	TextMuted:  "#a8a29e", // stone-400.

	Degree: "#38bdf8", // sky-400.
	Gap:    "#fbbf24", // amber-400.
	Late:   "#f87171", // red-400.
}
