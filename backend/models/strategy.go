// ABOUTME: Data models for what-if ascent strategy comparison
// ABOUTME: Redistributed stop minutes per strategy, never used as a safety plan

package models

// Strategy tags
const (
	StrategyUniform     = "uniform"
	StrategyLinear      = "linear"
	StrategySCurve      = "s-curve"
	StrategyExponential = "exponential"
)

// Strategies lists every strategy tag in display order.
var Strategies = []string{StrategyUniform, StrategyLinear, StrategySCurve, StrategyExponential}

// StrategyStop is one stop with its minutes reallocated by a strategy
type StrategyStop struct {
	Depth           int `json:"depth"`
	Minutes         int `json:"minutes"`          // redistributed
	OriginalMinutes int `json:"original_minutes"` // from the computed plan
}

// StrategyPlan is the full redistribution for one strategy
type StrategyPlan struct {
	Strategy      string         `json:"strategy"`
	Stops         []StrategyStop `json:"stops"`
	TotalDecoTime int            `json:"total_deco_time"`
}

// StrategyResponse pairs the computed plan with its redistributions
type StrategyResponse struct {
	Plan       PlanSummary    `json:"plan"`
	Strategies []StrategyPlan `json:"strategies"`
}

// CompareRequest is a batch of dive profiles planned side by side
type CompareRequest struct {
	Profiles []DiveParameters `json:"profiles"`
}

// CompareResponse holds one summary per requested profile, in request order
type CompareResponse struct {
	Plans []PlanSummary `json:"plans"`
}
