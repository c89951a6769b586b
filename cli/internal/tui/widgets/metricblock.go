// ABOUTME: Compact metric block widget for plan summary displays
// ABOUTME: Combines icon, value, and saturation bar in a bordered panel

package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/cli/internal/tui/icons"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
)

const defaultBlockWidth = 22

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
	DetailColor lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       defaultBlockWidth,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  lipgloss.Color("#F9FAFB"),
		DetailColor: styles.Muted,
	}
}

// MetricBlock renders a value with a one-line subtitle
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	config = withDefaults(config)
	value = lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true).Render(value)
	subtitle = lipgloss.NewStyle().Foreground(config.DetailColor).Render(subtitle)
	return frame(icon, title, config, value, subtitle)
}

// MetricBlockWithBar renders a saturation percentage, its bar, and a detail
// line. The colour follows the saturation thresholds.
func MetricBlockWithBar(icon icons.Icon, title string, percent float64, details string, config MetricBlockConfig) string {
	config = withDefaults(config)
	inner := config.Width - 4

	color := styles.SaturationColor(percent)
	value := lipgloss.NewStyle().Foreground(color).Bold(true).Render(strconv.FormatFloat(percent, 'f', 0, 64)+"%") +
		" " + StatusIcon(SaturationStatus(percent))
	bar := CompactProgressBar(percent, inner-2, color)
	detail := lipgloss.NewStyle().Foreground(config.DetailColor).Render(truncate(details, inner))

	return frame(icon, title, config, value, bar, detail)
}

// CountBlock renders a simple count metric such as the number of stops
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, strconv.Itoa(count), label, config)
}

func withDefaults(config MetricBlockConfig) MetricBlockConfig {
	if config.Width <= 0 {
		config.Width = defaultBlockWidth
	}
	if config.DetailColor == "" {
		config.DetailColor = styles.Muted
	}
	return config
}

// frame draws the box with the title set into the top border. Lines are
// padded by display width so styled content keeps the right border aligned.
func frame(icon icons.Icon, title string, config MetricBlockConfig, lines ...string) string {
	inner := config.Width - 4
	border := lipgloss.NewStyle().Foreground(config.BorderColor)

	label := truncate(icon.String()+" "+title, inner)
	fill := max(0, config.Width-5-lipgloss.Width(label))
	out := []string{
		border.Render("┌─ ") + lipgloss.NewStyle().Foreground(config.TitleColor).Render(label) +
			border.Render(" "+strings.Repeat("─", fill)+"┐"),
	}

	for _, line := range lines {
		pad := max(0, inner-lipgloss.Width(line))
		out = append(out, border.Render("│ ")+line+strings.Repeat(" ", pad)+border.Render(" │"))
	}

	out = append(out, border.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))
	return strings.Join(out, "\n")
}

// truncate shortens s to maxLen runes with an ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-1]) + "…"
}
