// Package ui renders the interactive registration form.
// Colors come in a light and a dark palette; the palette is picked from the
// config file or from the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"regform/internal/registration"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1b2733")
	LightPrimary    = lipgloss.Color("#22577a")
	LightAccent     = lipgloss.Color("#38a3a5")
	LightMuted      = lipgloss.Color("#7b8794")
	LightBorder     = lipgloss.Color("#cbd2d9")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f0f4f8")
	DarkPrimary    = lipgloss.Color("#80ed99")
	DarkAccent     = lipgloss.Color("#57cc99")
	DarkMuted      = lipgloss.Color("#9aa5b1")
	DarkBorder     = lipgloss.Color("#3e4c59")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor maps the ui.theme config value to a theme. "auto" and unknown
// values fall back to detection.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are likely dark backgrounds
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("REGFORM_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Footer   lipgloss.Style

	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Prompt       lipgloss.Style
	Input        lipgloss.Style
	Hint         lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Spinner lipgloss.Style
	Notice  lipgloss.Style
	Card    lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),

		Label: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Width(18),

		FocusedLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Width(18),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Input: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(18),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			PaddingLeft(18),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Warning).
			Padding(1, 3).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}

// StrengthLabel renders a password strength in its traffic-light color.
func (s Styles) StrengthLabel(st registration.Strength) string {
	switch st {
	case registration.StrengthWeak:
		return lipgloss.NewStyle().Foreground(Destructive).Render(string(st))
	case registration.StrengthModerate:
		return lipgloss.NewStyle().Foreground(Warning).Render(string(st))
	case registration.StrengthStrong:
		return lipgloss.NewStyle().Foreground(Success).Render(string(st))
	}
	return ""
}

// NewMarkdownRenderer returns a glamour renderer matching the theme.
func NewMarkdownRenderer(theme Theme, width int) (*glamour.TermRenderer, error) {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	return glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
}
