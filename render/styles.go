package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

type theme struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	number lipgloss.Style
	ok     lipgloss.Style
	bad    lipgloss.Style
	border lipgloss.Style
}

func colorTheme() theme {
	return theme{
		title:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		header: lipgloss.NewStyle().Bold(true).Foreground(colorSecondary).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		number: lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		ok:     lipgloss.NewStyle().Foreground(colorSecondary),
		bad:    lipgloss.NewStyle().Foreground(colorError),
		border: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

func plainTheme() theme {
	return theme{
		title:  lipgloss.NewStyle(),
		header: lipgloss.NewStyle().Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		number: lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		ok:     lipgloss.NewStyle(),
		bad:    lipgloss.NewStyle(),
		border: lipgloss.NewStyle(),
	}
}
