package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI. The accent
// color comes from configuration; everything else derives from it the
// way the original strip dims unselected entries.
type Styles struct {
	Prompt    lipgloss.Style
	Input     lipgloss.Style
	InputDim  lipgloss.Style
	Match     lipgloss.Style
	MatchDim  lipgloss.Style
	Matched   lipgloss.Style // matched runes inside the highlighted name
	Strip     lipgloss.Style
}

// NewStyles creates a new Styles instance around the configured accent
// color and margin.
func NewStyles(color string, margin int) *Styles {
	accent := lipgloss.Color(color)
	return &Styles{
		Prompt:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Input:    lipgloss.NewStyle().Foreground(accent),
		InputDim: lipgloss.NewStyle().Faint(true),
		Match:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		MatchDim: lipgloss.NewStyle().Faint(true),
		Matched:  lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),
		Strip:    lipgloss.NewStyle().PaddingLeft(margin),
	}
}
