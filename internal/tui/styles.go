package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the picker's lipgloss styles.
type Styles struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Item     lipgloss.Style
	Code     lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
	}
}
