// ABOUTME: Data models for decompression plan output
// ABOUTME: Stop rows, chronological schedule, tissue snapshots, and timeline samples

package models

import (
	"fmt"
	"strconv"
)

// Phase identifies a segment of the dive
type Phase string

const (
	PhaseDescent Phase = "Descent"
	PhaseBottom  Phase = "Bottom"
	PhaseAscent  Phase = "Ascent"
	PhaseStop    Phase = "Stop"
	PhaseSurface Phase = "Surface"
)

// ScheduleRow is one required decompression stop
type ScheduleRow struct {
	Depth   int    `json:"depth"`   // m, multiple of 3 unless it is the last stop
	Minutes int    `json:"minutes"` // whole minutes at the stop
	Gas     string `json:"gas"`     // label of the gas breathed at the stop
}

// ScheduleEvent is one entry of the chronological dive log
type ScheduleEvent struct {
	Phase       Phase   `json:"phase"`
	FromDepth   float64 `json:"from_depth"`
	ToDepth     float64 `json:"to_depth"`
	Rate        float64 `json:"rate,omitempty"`      // m/min for descent and ascent segments
	Minutes     int     `json:"minutes"`             // segment duration, rounded up
	Accumulated int     `json:"accumulated_minutes"` // runtime at segment end, rounded up
}

// DepthRange renders the depth span as "40-12m", or "12m" for constant-depth segments.
func (e ScheduleEvent) DepthRange() string {
	if e.FromDepth == e.ToDepth {
		return formatDepth(e.FromDepth) + "m"
	}
	return fmt.Sprintf("%s-%sm", formatDepth(e.FromDepth), formatDepth(e.ToDepth))
}

func formatDepth(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// CompartmentReading is the derived state of one tissue compartment
type CompartmentReading struct {
	Compartment int     `json:"compartment"` // 1-16
	Label       string  `json:"label"`
	N2          float64 `json:"n2"`         // bar
	He          float64 `json:"he"`         // bar
	Total       float64 `json:"total"`      // bar, N2 + He
	MValue      float64 `json:"m_value"`    // GF-adjusted tolerated ambient pressure, bar
	Saturation  float64 `json:"saturation"` // Total as a percentage of MValue
}

// TissueSnapshot captures every compartment at a key point of the dive
type TissueSnapshot struct {
	Phase        Phase                `json:"phase"`
	Label        string               `json:"label"` // e.g. "Stop @ 12m"
	Depth        float64              `json:"depth"`
	Time         int                  `json:"time"`                // runtime, rounded up
	Leading      int                  `json:"leading_compartment"` // 1-16
	Compartments []CompartmentReading `json:"compartments"`
}

// TimelineSample captures every compartment for saturation-over-time charts
type TimelineSample struct {
	Time         float64              `json:"time"` // runtime, minutes
	Depth        float64              `json:"depth"`
	Phase        Phase                `json:"phase"`
	Compartments []CompartmentReading `json:"compartments"`
}

// PlanResult is the complete output of one planning run
type PlanResult struct {
	Rows            []ScheduleRow    `json:"rows"`
	TotalRuntime    int              `json:"total_runtime"`
	TotalDecoTime   int              `json:"total_deco_time"`
	FirstStopDepth  int              `json:"first_stop_depth"`
	BottomGas       string           `json:"bottom_gas"`
	Schedule        []ScheduleEvent  `json:"schedule"`
	TissueSnapshots []TissueSnapshot `json:"tissue_snapshots"`
	TissueTimeline  []TimelineSample `json:"tissue_timeline,omitempty"`
}

// PlanSummary is the compact view of a plan used for side-by-side comparison
type PlanSummary struct {
	Rows           []ScheduleRow `json:"rows"`
	TotalRuntime   int           `json:"total_runtime"`
	TotalDecoTime  int           `json:"total_deco_time"`
	FirstStopDepth int           `json:"first_stop_depth"`
	BottomGas      string        `json:"bottom_gas"`
}

// Summary returns the compact comparison view of the plan.
func (p *PlanResult) Summary() PlanSummary {
	return PlanSummary{
		Rows:           p.Rows,
		TotalRuntime:   p.TotalRuntime,
		TotalDecoTime:  p.TotalDecoTime,
		FirstStopDepth: p.FirstStopDepth,
		BottomGas:      p.BottomGas,
	}
}
