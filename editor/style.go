package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text       lipgloss.Style
	ActiveLine lipgloss.Style
	Selection  lipgloss.Style
	Cursor     lipgloss.Style

	Keyword lipgloss.Style
	String  lipgloss.Style
	Comment lipgloss.Style
	Number  lipgloss.Style
}

// DefaultStyle is the dark theme.
func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ActiveLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235")),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Keyword:       lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		String:        lipgloss.NewStyle().Foreground(lipgloss.Color("173")),
		Comment:       lipgloss.NewStyle().Foreground(lipgloss.Color("71")).Italic(true),
		Number:        lipgloss.NewStyle().Foreground(lipgloss.Color("151")),
	}
}

// LightStyle is the light theme.
func LightStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Bold(true),
		Text:          lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		ActiveLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("255")),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("153")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Keyword:       lipgloss.NewStyle().Foreground(lipgloss.Color("21")),
		String:        lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Comment:       lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Italic(true),
		Number:        lipgloss.NewStyle().Foreground(lipgloss.Color("29")),
	}
}

// StyleFor maps a theme name to a Style. "light" and "vs" select the light
// theme; anything else is dark.
func StyleFor(theme string) Style {
	switch strings.ToLower(theme) {
	case "light", "vs":
		return LightStyle()
	default:
		return DefaultStyle()
	}
}
