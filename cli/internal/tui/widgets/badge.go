// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Colored inline badges for deco status, conservatism, and stop deltas

package widgets

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/cli/internal/tui/icons"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

type badgeColors struct {
	bg, fg lipgloss.Color
	icon   icons.Icon
}

var (
	white = lipgloss.Color("#FFFFFF")
	black = lipgloss.Color("#000000")

	palette = map[StatusLevel]badgeColors{
		StatusOK:       {styles.Secondary, white, icons.CheckOK},
		StatusWarning:  {styles.Warning, black, icons.Warning},
		StatusCritical: {styles.Danger, white, icons.Critical},
		StatusInfo:     {styles.Info, white, icons.Info},
		StatusNeutral:  {styles.Muted, white, icons.Dot},
	}
)

func colorsFor(level StatusLevel) badgeColors {
	if c, ok := palette[level]; ok {
		return c
	}
	return palette[StatusNeutral]
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	c := colorsFor(level)
	return lipgloss.NewStyle().
		Background(c.bg).
		Foreground(c.fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// SaturationStatus grades a compartment saturation against its M-value
func SaturationStatus(saturation float64) StatusLevel {
	switch {
	case saturation >= styles.SaturationCritical:
		return StatusCritical
	case saturation >= styles.SaturationWarn:
		return StatusWarning
	default:
		return StatusOK
	}
}

// StatusIcon returns the coloured icon for a status level
func StatusIcon(level StatusLevel) string {
	c := colorsFor(level)
	return lipgloss.NewStyle().Foreground(c.bg).Render(c.icon.String())
}

// StatusText prefixes text with the status icon, both in the status colour
func StatusText(text string, level StatusLevel) string {
	c := colorsFor(level)
	return StatusIcon(level) + " " + lipgloss.NewStyle().Foreground(c.bg).Render(text)
}

// DeltaBadge renders a signed change such as "+3min". With invert set,
// increases read as warnings.
func DeltaBadge(delta float64, unit string, invert bool) string {
	text := strconv.FormatFloat(delta, 'f', 0, 64) + unit
	if delta == 0 {
		return Badge(text, StatusNeutral)
	}

	up, down := StatusOK, StatusWarning
	if invert {
		up, down = down, up
	}
	if delta > 0 {
		return Badge("+"+text, up)
	}
	return Badge(text, down)
}

// DecoBadge marks a plan as a no-stop dive or a decompression dive
func DecoBadge(stops int) string {
	if stops == 0 {
		return Badge("NO DECO", StatusOK)
	}
	return Badge(fmt.Sprintf("DECO %d STOPS", stops), StatusWarning)
}

// ConservatismBadge renders the conservatism of a GF high setting
func ConservatismBadge(gfHigh float64) string {
	return Badge(ConservatismLevel(gfHigh))
}

// ConservatismLevel describes a GF high fraction. Lower GF high surfaces
// with more margin below the M-value.
func ConservatismLevel(gfHigh float64) (string, StatusLevel) {
	switch {
	case gfHigh <= 0.75:
		return "Conservative", StatusOK
	case gfHigh <= 0.85:
		return "Moderate", StatusWarning
	default:
		return "Aggressive", StatusCritical
	}
}
