// ABOUTME: Saturation gauges and compact share bars
// ABOUTME: The gauge marks where the warning zone of the M-value starts

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
)

const defaultGaugeWidth = 20

var emptyCell = lipgloss.NewStyle().Foreground(styles.Surface)

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}

// SaturationGauge renders a bracketed bar coloured by zone, then the
// saturation and its status icon. Values above 100 fill the bar but the
// label keeps the real number.
func SaturationGauge(percent float64, width int) string {
	if width <= 0 {
		width = defaultGaugeWidth
	}

	filled := int(clampPercent(percent) / 100 * float64(width))
	warnPos := int(styles.SaturationWarn / 100 * float64(width))

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			zone := float64(i) / float64(width) * 100
			b.WriteString(lipgloss.NewStyle().Foreground(styles.SaturationColor(zone)).Render("█"))
		case i == warnPos:
			b.WriteString(emptyCell.Render("│"))
		default:
			b.WriteString(emptyCell.Render("░"))
		}
	}
	b.WriteString("]")

	label := lipgloss.NewStyle().Foreground(styles.SaturationColor(percent)).Render(fmt.Sprintf("%3.0f%%", percent))
	return b.String() + " " + label + " " + StatusIcon(SaturationStatus(percent))
}

// CompactProgressBar renders an unbracketed bar for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	filled := int(clampPercent(percent) / 100 * float64(width))

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		emptyCell.Render(strings.Repeat("░", width-filled))
}
