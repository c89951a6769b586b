// ABOUTME: Input validation for dive planning parameters
// ABOUTME: Rejects out-of-range values and unknown selectors before any simulation

package services

import (
	"errors"
	"math"
	"strings"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// ValidateDiveParameters checks every numeric range and selector in params.
// The returned error wraps ErrInvalidParameter or ErrInvalidConfiguration.
func ValidateDiveParameters(p models.DiveParameters) error {
	var errs []error

	// NaN fails every comparison below and +Inf passes them, so finiteness is
	// checked first for every float field.
	for _, f := range floatFields(p) {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = append(errs, invalidParameter(f.name, "must be a finite number, got %v", f.value))
		}
	}

	if p.Depth <= 0 {
		errs = append(errs, invalidParameter("depth", "must be positive, got %v", p.Depth))
	}
	if p.BottomTime <= 0 {
		errs = append(errs, invalidParameter("bottom_time", "must be positive, got %v", p.BottomTime))
	}
	if p.DescentRate <= 0 {
		errs = append(errs, invalidParameter("descent_rate", "must be positive, got %v", p.DescentRate))
	}
	if p.GFLow <= 0 || p.GFLow > p.GFHigh || p.GFHigh > 1 {
		errs = append(errs, invalidParameter("gf_low/gf_high", "must satisfy 0 < low <= high <= 1, got %v/%v", p.GFLow, p.GFHigh))
	}
	if p.LastStopDepth < 0 {
		errs = append(errs, invalidParameter("last_stop_depth", "must not be negative, got %d", p.LastStopDepth))
	}

	switch p.Ascent.Mode {
	case models.AscentFlat:
		if p.Ascent.Rate <= 0 {
			errs = append(errs, invalidParameter("ascent.rate", "must be positive, got %v", p.Ascent.Rate))
		}
	case models.AscentBanded:
		if p.Ascent.DeepRate <= 0 {
			errs = append(errs, invalidParameter("ascent.deep_rate", "must be positive, got %v", p.Ascent.DeepRate))
		}
		if p.Ascent.ShallowRate <= 0 {
			errs = append(errs, invalidParameter("ascent.shallow_rate", "must be positive, got %v", p.Ascent.ShallowRate))
		}
		if p.Ascent.ShallowThreshold < 0 {
			errs = append(errs, invalidParameter("ascent.shallow_threshold", "must not be negative, got %v", p.Ascent.ShallowThreshold))
		}
	default:
		errs = append(errs, invalidConfiguration("ascent.mode", p.Ascent.Mode))
	}

	if _, err := NewGasMixResolver(p); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

type floatField struct {
	name  string
	value float64
}

func floatFields(p models.DiveParameters) []floatField {
	return []floatField{
		{"depth", p.Depth},
		{"bottom_time", p.BottomTime},
		{"descent_rate", p.DescentRate},
		{"gf_low", p.GFLow},
		{"gf_high", p.GFHigh},
		{"custom_gas.o2_percent", p.CustomGas.O2Percent},
		{"custom_gas.he_percent", p.CustomGas.HePercent},
		{"deco_o2_percent", p.DecoO2Percent},
		{"ascent.rate", p.Ascent.Rate},
		{"ascent.deep_rate", p.Ascent.DeepRate},
		{"ascent.shallow_rate", p.Ascent.ShallowRate},
		{"ascent.shallow_threshold", p.Ascent.ShallowThreshold},
	}
}

// Limits bounds the dives a caller accepts. The engine itself has no upper
// bounds; run time and timeline size grow with depth, bottom time, and the
// inverse of every rate, so entry points check these before planning.
type Limits struct {
	MaxDepth      float64 // metres
	MaxBottomTime float64 // minutes
	MinRate       float64 // m/min, descent and every ascent rate in use
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 200, MaxBottomTime: 480, MinRate: 1}
}

// Check rejects params beyond the limits with ErrInvalidParameter. A zero
// limit is not enforced.
func (l Limits) Check(p models.DiveParameters) error {
	var errs []error

	if l.MaxDepth > 0 && p.Depth > l.MaxDepth {
		errs = append(errs, invalidParameter("depth", "must not exceed %vm, got %v", l.MaxDepth, p.Depth))
	}
	if l.MaxBottomTime > 0 && p.BottomTime > l.MaxBottomTime {
		errs = append(errs, invalidParameter("bottom_time", "must not exceed %v minutes, got %v", l.MaxBottomTime, p.BottomTime))
	}

	if l.MinRate > 0 {
		rates := []floatField{{"descent_rate", p.DescentRate}}
		switch p.Ascent.Mode {
		case models.AscentFlat:
			rates = append(rates, floatField{"ascent.rate", p.Ascent.Rate})
		case models.AscentBanded:
			rates = append(rates,
				floatField{"ascent.deep_rate", p.Ascent.DeepRate},
				floatField{"ascent.shallow_rate", p.Ascent.ShallowRate})
		}
		for _, r := range rates {
			if r.value > 0 && r.value < l.MinRate {
				errs = append(errs, invalidParameter(r.name, "must be at least %v m/min, got %v", l.MinRate, r.value))
			}
		}
	}

	return errors.Join(errs...)
}
