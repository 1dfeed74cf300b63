package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("4")
	ColorSecondary = lipgloss.Color("6")
	ColorWarning   = lipgloss.Color("3")
	ColorDanger    = lipgloss.Color("1")
	ColorMuted     = lipgloss.Color("8")

	// Title styles
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// Note list
	ListItemStyle         = lipgloss.NewStyle().PaddingLeft(1)
	ListItemSelectedStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(ColorSecondary)
	ListMetaStyle         = lipgloss.NewStyle().Foreground(ColorMuted)
	ShippableTagStyle     = lipgloss.NewStyle().Foreground(ColorWarning)

	// Detail pane
	DetailBoxStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(ColorMuted).Padding(0, 1)

	// Errors
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	// Help text
	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
