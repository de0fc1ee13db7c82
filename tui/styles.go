package tui

import "github.com/charmbracelet/lipgloss"

// Styles controls how the viewer paints a verse.
type Styles struct {
	Title  lipgloss.Style
	Gutter lipgloss.Style
	Text   lipgloss.Style
	Strong   lipgloss.Style
	Em       lipgloss.Style
	StrongEm lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles returns the stock viewer palette: a muted gutter and status line,
// plain text, and bold and italic attributes for emphasis.
func DefaultStyles() Styles {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Gutter:   muted,
		Text:     lipgloss.NewStyle(),
		Strong:   lipgloss.NewStyle().Bold(true),
		Em:       lipgloss.NewStyle().Italic(true),
		StrongEm: lipgloss.NewStyle().Bold(true).Italic(true),
		Status:   muted,
	}
}
