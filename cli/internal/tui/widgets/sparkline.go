// ABOUTME: Sparkline widget renders mini charts using block characters
// ABOUTME: Used for dive profiles and leading-compartment saturation over time

package widgets

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values (oldest first) resampled to width characters.
// An empty color leaves the terminal foreground.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)
	lo, hi := slices.Min(sampled), slices.Max(sampled)

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = block(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

// SaturationSparkline shades each block by the saturation zone it reaches
func SaturationSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)
	lo, hi := slices.Min(sampled), slices.Max(sampled)

	var b strings.Builder
	for _, v := range sampled {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.SaturationColor(v)).Render(string(block(v, lo, hi))))
	}
	return b.String()
}

// DepthProfile renders depths (metres, oldest first) with the surface at
// the top of the chart, the way dive profiles are drawn
func DepthProfile(depths []float64, width int, color lipgloss.Color) string {
	inverted := make([]float64, len(depths))
	for i, d := range depths {
		inverted[i] = -d
	}
	return Sparkline(inverted, width, color)
}

// sampleValues stretches or thins values to exactly width entries. Short
// series are left-padded with their first value so they keep their scale.
func sampleValues(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	out := make([]float64, width)
	if len(values) < width {
		pad := width - len(values)
		for i := range pad {
			out[i] = values[0]
		}
		copy(out[pad:], values)
		return out
	}

	step := float64(len(values)) / float64(width)
	for i := range out {
		out[i] = values[min(int(float64(i)*step), len(values)-1)]
	}
	return out
}

func block(v, lo, hi float64) rune {
	if hi == lo {
		return sparkBlocks[len(sparkBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
	return sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)]
}
