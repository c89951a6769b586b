// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Palette, panels, and the compact tissue saturation bar

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	Surface   = lipgloss.Color("#374151")
	Info      = lipgloss.Color("#3B82F6") // depth profile
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	Subtitle = lipgloss.NewStyle().Foreground(Muted).MarginBottom(1)
	Help     = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)

	StatusWarning  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	StatusCritical = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	// ActivePanel highlights the pane that owns keyboard focus.
	ActivePanel = Panel.BorderForeground(Primary)
)

// Saturation thresholds as a percentage of the compartment M-value.
const (
	SaturationWarn     = 80.0
	SaturationCritical = 100.0
)

// SaturationColor picks the palette colour for a saturation percentage.
func SaturationColor(percent float64) lipgloss.Color {
	switch {
	case percent >= SaturationCritical:
		return Danger
	case percent >= SaturationWarn:
		return Warning
	default:
		return Secondary
	}
}

// SaturationBar renders a bracketless bar for narrow panes.
func SaturationBar(percent float64, width int) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(SaturationColor(percent)).Render(bar)
}
