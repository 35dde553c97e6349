package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the finder.
type Styles struct {
	Query    lipgloss.Style
	Results  lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles returns the default finder styles.
func DefaultStyles() *Styles {
	return &Styles{
		Query: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Results: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("14")).
			Foreground(lipgloss.Color("0")),
		Normal: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}
