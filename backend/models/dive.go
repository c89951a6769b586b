// ABOUTME: Data models for dive planning input parameters
// ABOUTME: Bottom gas selectors, deco gas policies, and ascent rate policies

package models

import "math"

// Bottom gas selectors
const (
	BottomGasAir        = "air"
	BottomGasEAN28      = "ean28"
	BottomGasEAN32      = "ean32"
	BottomGasTrimix2135 = "trimix-21/35"
	BottomGasTrimix1845 = "trimix-18/45"
	BottomGasCustom     = "custom"
)

// Custom gas types
const (
	CustomGasNitrox = "nitrox"
	CustomGasTrimix = "trimix"
)

// Deco gas policies
const (
	DecoGasNone         = "none"          // breathe the bottom gas for the whole dive
	DecoGasOxygen       = "oxygen"        // pure O2 at every stop
	DecoGasNitrox       = "nitrox"        // fixed-percentage nitrox at every stop
	DecoGasNitroxOxygen = "nitrox-oxygen" // nitrox, switching to O2 at 6 m and shallower
)

// Ascent rate modes
const (
	AscentFlat   = "flat"
	AscentBanded = "banded"
)

// OxygenSwitchDepth is the depth (m) at or above which nitrox-oxygen switches to pure O2.
const OxygenSwitchDepth = 6

// GasMix is a breathing gas expressed as fractions. Nitrogen is the remainder.
type GasMix struct {
	O2 float64 `json:"o2"`
	He float64 `json:"he"`
}

// N2 returns the implied nitrogen fraction.
func (g GasMix) N2() float64 {
	return 1 - g.O2 - g.He
}

// Percent returns the O2 and He fractions rounded to whole percentages.
func (g GasMix) Percent() (o2, he int) {
	return int(math.Round(g.O2 * 100)), int(math.Round(g.He * 100))
}

// CustomGas is an operator-entered bottom gas composition
type CustomGas struct {
	Type      string  `json:"type" yaml:"type"`             // nitrox or trimix
	O2Percent float64 `json:"o2_percent" yaml:"o2_percent"` // 1-100
	HePercent float64 `json:"he_percent" yaml:"he_percent"` // trimix only
}

// AscentPolicy selects the ascent rate for each ascent segment
type AscentPolicy struct {
	Mode             string  `json:"mode" yaml:"mode"`                           // flat or banded
	Rate             float64 `json:"rate" yaml:"rate"`                           // m/min, flat mode
	DeepRate         float64 `json:"deep_rate" yaml:"deep_rate"`                 // m/min, banded mode below the threshold
	ShallowRate      float64 `json:"shallow_rate" yaml:"shallow_rate"`           // m/min, banded mode at or above the threshold
	ShallowThreshold float64 `json:"shallow_threshold" yaml:"shallow_threshold"` // m
}

// RateFrom returns the ascent rate for a segment that starts at depth.
func (p AscentPolicy) RateFrom(depth float64) float64 {
	if p.Mode != AscentBanded {
		return p.Rate
	}
	if depth > p.ShallowThreshold {
		return p.DeepRate
	}
	return p.ShallowRate
}

// DiveParameters is the complete input for one planning run
type DiveParameters struct {
	Depth         float64      `json:"depth" yaml:"depth"`                     // m
	BottomTime    float64      `json:"bottom_time" yaml:"bottom_time"`         // min
	DescentRate   float64      `json:"descent_rate" yaml:"descent_rate"`       // m/min
	BottomGas     string       `json:"bottom_gas" yaml:"bottom_gas"`           // selector
	CustomGas     CustomGas    `json:"custom_gas" yaml:"custom_gas"`           // used when BottomGas is custom
	GFLow         float64      `json:"gf_low" yaml:"gf_low"`                   // fraction 0-1
	GFHigh        float64      `json:"gf_high" yaml:"gf_high"`                 // fraction 0-1
	DecoGas       string       `json:"deco_gas" yaml:"deco_gas"`               // policy
	DecoO2Percent float64      `json:"deco_o2_percent" yaml:"deco_o2_percent"` // nitrox policies
	Ascent        AscentPolicy `json:"ascent" yaml:"ascent"`
	LastStopDepth int          `json:"last_stop_depth" yaml:"last_stop_depth"` // m, 0 surfaces directly
}

// DefaultDiveParameters returns the planner defaults for every field except
// depth and bottom time, which the diver always has to supply.
func DefaultDiveParameters() DiveParameters {
	return DiveParameters{
		DescentRate: 20,
		BottomGas:   BottomGasAir,
		CustomGas: CustomGas{
			Type:      CustomGasNitrox,
			O2Percent: 32,
			HePercent: 0,
		},
		GFLow:         0.30,
		GFHigh:        0.85,
		DecoGas:       DecoGasNitrox,
		DecoO2Percent: 50,
		Ascent: AscentPolicy{
			Mode:             AscentFlat,
			Rate:             10,
			DeepRate:         6,
			ShallowRate:      9,
			ShallowThreshold: 21,
		},
		LastStopDepth: 6,
	}
}
