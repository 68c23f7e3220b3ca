package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/codeplay/editor"
)

type styles struct {
	Header    lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Title     lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Prompt    lipgloss.Style
}

func stylesFor(theme string) styles {
	if theme == "light" {
		return styles{
			Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			TabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("25")).Padding(0, 1),
			Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1),
			Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("238")),
			Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
			Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
			Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		}
	}
	return styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		TabActive: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("111")).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
	}
}

// resolveTheme maps "auto" to dark or light from the terminal background.
// A nil output counts as dark.
func resolveTheme(theme string, out *termenv.Output) string {
	if theme != "auto" {
		return theme
	}
	if out != nil && !out.HasDarkBackground() {
		return "light"
	}
	return "dark"
}

func editorStyle(theme string) editor.Style {
	return editor.StyleFor(theme)
}
