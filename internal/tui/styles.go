package tui

import (
	"github.com/charmbracelet/lipgloss"

	"plando/internal/config"
)

// Styles holds the lipgloss styles derived from the configured theme.
type Styles struct {
	Title        lipgloss.Style
	Selected     lipgloss.Style
	Normal       lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	Completed    lipgloss.Style
	Pagination   lipgloss.Style
	Help         lipgloss.Style
	ProjectCard  lipgloss.Style
	SelectedCard lipgloss.Style
}

// NewStyles builds the style set from the theme colors.
func NewStyles(theme config.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	muted := lipgloss.Color(theme.Muted)
	danger := lipgloss.Color(theme.Danger)
	completed := lipgloss.Color(theme.Completed)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Normal:    lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(danger),
		Completed: lipgloss.NewStyle().Foreground(completed).Strikethrough(true),
		Pagination: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Padding(1, 1, 0, 1),
		ProjectCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		SelectedCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
