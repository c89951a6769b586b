// ABOUTME: Metric and imperial unit handling for dive plan input and display
// ABOUTME: The planner always works in metres; feet are converted at the edges

package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// FeetPerMetre is the conversion factor between metres and feet.
const FeetPerMetre = 3.28084

// System is a unit system for depths and rates
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// Parse returns the unit system named by s. An empty string means metric.
func Parse(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case "", Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (expected metric or imperial)", s)
	}
}

// DepthUnit is the short depth suffix, "m" or "ft".
func (s System) DepthUnit() string {
	if s == Imperial {
		return "ft"
	}
	return "m"
}

// RateUnit is the ascent and descent rate suffix.
func (s System) RateUnit() string {
	return s.DepthUnit() + "/min"
}

// ToMetres converts a depth or rate entered in s to metres.
func (s System) ToMetres(v float64) float64 {
	if s == Imperial {
		return v / FeetPerMetre
	}
	return v
}

// FromMetres converts a depth or rate in metres to s.
func (s System) FromMetres(m float64) float64 {
	if s == Imperial {
		return m * FeetPerMetre
	}
	return m
}

// Depth renders a depth in metres as a whole number in s, e.g. "40ft".
func (s System) Depth(m float64) string {
	return fmt.Sprintf("%.0f%s", math.Round(s.FromMetres(m)), s.DepthUnit())
}

// Rate renders a rate in m/min with one decimal in imperial, e.g. "32.8 ft/min".
func (s System) Rate(mPerMin float64) string {
	if s == Imperial {
		return fmt.Sprintf("%.1f %s", s.FromMetres(mPerMin), s.RateUnit())
	}
	return fmt.Sprintf("%g %s", mPerMin, s.RateUnit())
}

// DepthRange renders a schedule segment span, e.g. "131-39ft" or "12m".
func (s System) DepthRange(e models.ScheduleEvent) string {
	if s == Metric {
		return e.DepthRange()
	}
	from := math.Round(s.FromMetres(e.FromDepth))
	to := math.Round(s.FromMetres(e.ToDepth))
	if e.FromDepth == e.ToDepth {
		return fmt.Sprintf("%.0fft", from)
	}
	return fmt.Sprintf("%.0f-%.0fft", from, to)
}

// ParamsToMetres converts every depth and rate of p from s to metres. The last
// stop is rounded to the nearest whole metre.
func (s System) ParamsToMetres(p models.DiveParameters) models.DiveParameters {
	if s != Imperial {
		return p
	}
	p.Depth = s.ToMetres(p.Depth)
	p.DescentRate = s.ToMetres(p.DescentRate)
	p.Ascent.Rate = s.ToMetres(p.Ascent.Rate)
	p.Ascent.DeepRate = s.ToMetres(p.Ascent.DeepRate)
	p.Ascent.ShallowRate = s.ToMetres(p.Ascent.ShallowRate)
	p.Ascent.ShallowThreshold = s.ToMetres(p.Ascent.ShallowThreshold)
	p.LastStopDepth = int(math.Round(s.ToMetres(float64(p.LastStopDepth))))
	return p
}

// ParamsFromMetres is the inverse of ParamsToMetres, used to prefill imperial forms.
func (s System) ParamsFromMetres(p models.DiveParameters) models.DiveParameters {
	if s != Imperial {
		return p
	}
	p.Depth = math.Round(s.FromMetres(p.Depth))
	p.DescentRate = math.Round(s.FromMetres(p.DescentRate))
	p.Ascent.Rate = math.Round(s.FromMetres(p.Ascent.Rate))
	p.Ascent.DeepRate = math.Round(s.FromMetres(p.Ascent.DeepRate))
	p.Ascent.ShallowRate = math.Round(s.FromMetres(p.Ascent.ShallowRate))
	p.Ascent.ShallowThreshold = math.Round(s.FromMetres(p.Ascent.ShallowThreshold))
	p.LastStopDepth = int(math.Round(s.FromMetres(float64(p.LastStopDepth))))
	return p
}
