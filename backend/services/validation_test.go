// ABOUTME: Tests for dive parameter validation
// ABOUTME: Verifies range checks, selector checks, and log-safe error messages

package services

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

func TestValidateDiveParameters_Valid(t *testing.T) {
	if err := ValidateDiveParameters(refParams()); err != nil {
		t.Errorf("Expected reference parameters to validate, got %v", err)
	}

	banded := refParams()
	banded.Ascent.Mode = models.AscentBanded
	banded.Ascent.Rate = 0
	if err := ValidateDiveParameters(banded); err != nil {
		t.Errorf("Expected banded ascent to ignore the flat rate, got %v", err)
	}
}

func TestValidateDiveParameters_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *models.DiveParameters)
		kind   error
		field  string
	}{
		{"zero depth", func(p *models.DiveParameters) { p.Depth = 0 }, ErrInvalidParameter, "depth"},
		{"zero bottom time", func(p *models.DiveParameters) { p.BottomTime = 0 }, ErrInvalidParameter, "bottom_time"},
		{"zero descent rate", func(p *models.DiveParameters) { p.DescentRate = 0 }, ErrInvalidParameter, "descent_rate"},
		{"zero GF low", func(p *models.DiveParameters) { p.GFLow = 0 }, ErrInvalidParameter, "gf_low/gf_high"},
		{"GF high above 1", func(p *models.DiveParameters) { p.GFHigh = 1.2 }, ErrInvalidParameter, "gf_low/gf_high"},
		{"negative last stop", func(p *models.DiveParameters) { p.LastStopDepth = -3 }, ErrInvalidParameter, "last_stop_depth"},
		{"zero flat rate", func(p *models.DiveParameters) { p.Ascent.Rate = 0 }, ErrInvalidParameter, "ascent.rate"},
		{"zero deep rate", func(p *models.DiveParameters) {
			p.Ascent.Mode = models.AscentBanded
			p.Ascent.DeepRate = 0
		}, ErrInvalidParameter, "ascent.deep_rate"},
		{"unknown ascent mode", func(p *models.DiveParameters) { p.Ascent.Mode = "rocket" }, ErrInvalidConfiguration, "ascent.mode"},
		{"unknown bottom gas", func(p *models.DiveParameters) { p.BottomGas = "heliair" }, ErrInvalidConfiguration, "bottom_gas"},
		{"deco O2 over 100", func(p *models.DiveParameters) {
			p.DecoGas = models.DecoGasNitrox
			p.DecoO2Percent = 120
		}, ErrInvalidParameter, "deco_o2_percent"},
		{"NaN depth", func(p *models.DiveParameters) { p.Depth = math.NaN() }, ErrInvalidParameter, "depth"},
		{"infinite depth", func(p *models.DiveParameters) { p.Depth = math.Inf(1) }, ErrInvalidParameter, "depth"},
		{"negative infinite bottom time", func(p *models.DiveParameters) { p.BottomTime = math.Inf(-1) }, ErrInvalidParameter, "bottom_time"},
		{"NaN descent rate", func(p *models.DiveParameters) { p.DescentRate = math.NaN() }, ErrInvalidParameter, "descent_rate"},
		{"NaN GF low", func(p *models.DiveParameters) { p.GFLow = math.NaN() }, ErrInvalidParameter, "gf_low"},
		{"NaN GF high", func(p *models.DiveParameters) { p.GFHigh = math.NaN() }, ErrInvalidParameter, "gf_high"},
		{"infinite flat rate", func(p *models.DiveParameters) { p.Ascent.Rate = math.Inf(1) }, ErrInvalidParameter, "ascent.rate"},
		{"NaN shallow threshold", func(p *models.DiveParameters) {
			p.Ascent.Mode = models.AscentBanded
			p.Ascent.ShallowThreshold = math.NaN()
		}, ErrInvalidParameter, "ascent.shallow_threshold"},
		{"NaN deco O2", func(p *models.DiveParameters) {
			p.DecoGas = models.DecoGasNitrox
			p.DecoO2Percent = math.NaN()
		}, ErrInvalidParameter, "deco_o2_percent"},
		{"infinite custom helium", func(p *models.DiveParameters) {
			p.BottomGas = models.BottomGasCustom
			p.CustomGas = models.CustomGas{Type: models.CustomGasTrimix, O2Percent: 18, HePercent: math.Inf(1)}
		}, ErrInvalidParameter, "custom_gas.he_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := refParams()
			tt.modify(&p)

			err := ValidateDiveParameters(p)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Expected %v, got %v", tt.kind, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestValidateDiveParameters_CollectsAllErrors(t *testing.T) {
	p := refParams()
	p.Depth = 0
	p.BottomTime = 0
	p.BottomGas = "heliair"

	err := ValidateDiveParameters(p)
	msg := err.Error()
	for _, field := range []string{"depth", "bottom_time", "bottom_gas"} {
		if !strings.Contains(msg, field) {
			t.Errorf("Expected error to mention %q, got %q", field, msg)
		}
	}
	if !errors.Is(err, ErrInvalidParameter) || !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected both error kinds, got %v", err)
	}
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"air", "air"},
		{"air\nINFO forged entry", "airINFO forged entry"},
		{"ean\r32\x00", "ean32"},
		{"trimix\x7f", "trimix"},
	}

	for _, tt := range tests {
		if got := sanitizeForLog(tt.input); got != tt.want {
			t.Errorf("sanitizeForLog(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}

	err := invalidConfiguration("bottom_gas", "air\nfake")
	if strings.Contains(err.Error(), "\n") {
		t.Errorf("Expected newline stripped from error, got %q", err.Error())
	}
}

func TestLimits_Check(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name   string
		modify func(p *models.DiveParameters)
		field  string
	}{
		{"within limits", func(p *models.DiveParameters) {}, ""},
		{"at the depth limit", func(p *models.DiveParameters) { p.Depth = limits.MaxDepth }, ""},
		{"too deep", func(p *models.DiveParameters) { p.Depth = limits.MaxDepth + 1 }, "depth"},
		{"bottom time too long", func(p *models.DiveParameters) { p.BottomTime = 1e8 }, "bottom_time"},
		{"descent too slow", func(p *models.DiveParameters) { p.DescentRate = 1e-9 }, "descent_rate"},
		{"flat ascent too slow", func(p *models.DiveParameters) { p.Ascent.Rate = 0.01 }, "ascent.rate"},
		{"banded ignores flat rate", func(p *models.DiveParameters) {
			p.Ascent.Mode = models.AscentBanded
			p.Ascent.Rate = 0.01
		}, ""},
		{"shallow ascent too slow", func(p *models.DiveParameters) {
			p.Ascent.Mode = models.AscentBanded
			p.Ascent.ShallowRate = 0.5
		}, "ascent.shallow_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := refParams()
			tt.modify(&p)

			err := limits.Check(p)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Expected ErrInvalidParameter, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("Expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestLimits_ZeroIsUnbounded(t *testing.T) {
	p := refParams()
	p.Depth, p.BottomTime, p.DescentRate = 1000, 1e6, 0.001

	if err := (Limits{}).Check(p); err != nil {
		t.Errorf("Expected zero limits to accept anything, got %v", err)
	}
}
