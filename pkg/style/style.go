// Package style defines the visual styling for savesync's terminal output.
//
// All styles use semantic names and adaptive colors that adjust to light
// and dark terminal themes.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Registry maps semantic names to lipgloss styles
var Registry = map[string]lipgloss.Style{
	"Error": lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"}),

	"Warning": lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}),

	"Success": lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}),

	"Muted": lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"}),

	"GameName": lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"}),
}

// Get returns the style registered under name, or a zero style when the
// name is unknown so callers can render unconditionally.
func Get(name string) lipgloss.Style {
	if s, ok := Registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
