package models

import (
	"encoding/json"
	"testing"
)

func TestDiveParametersParsing(t *testing.T) {
	input := `{
		"depth": 60,
		"bottom_time": 25,
		"bottom_gas": "trimix-18/45",
		"gf_low": 0.3,
		"gf_high": 0.85,
		"deco_gas": "nitrox-oxygen",
		"deco_o2_percent": 50,
		"ascent": {"mode": "banded", "deep_rate": 6, "shallow_rate": 9, "shallow_threshold": 21},
		"last_stop_depth": 6
	}`

	p := DefaultDiveParameters()
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Failed to parse DiveParameters: %v", err)
	}

	if p.Depth != 60 {
		t.Errorf("Expected depth 60, got %v", p.Depth)
	}
	if p.BottomGas != BottomGasTrimix1845 {
		t.Errorf("Expected bottom gas %s, got %s", BottomGasTrimix1845, p.BottomGas)
	}
	if p.Ascent.Mode != AscentBanded {
		t.Errorf("Expected banded ascent, got %s", p.Ascent.Mode)
	}
	// Fields absent from the body keep their defaults
	if p.DescentRate != 20 {
		t.Errorf("Expected default descent rate 20, got %v", p.DescentRate)
	}
	if p.Ascent.Rate != 10 {
		t.Errorf("Expected nested ascent fields to keep defaults, got rate %v", p.Ascent.Rate)
	}
}

func TestDefaultDiveParameters(t *testing.T) {
	p := DefaultDiveParameters()

	if p.GFLow != 0.30 || p.GFHigh != 0.85 {
		t.Errorf("Expected GF 30/85, got %v/%v", p.GFLow, p.GFHigh)
	}
	if p.LastStopDepth != 6 {
		t.Errorf("Expected last stop 6, got %d", p.LastStopDepth)
	}
	if p.Depth != 0 || p.BottomTime != 0 {
		t.Errorf("Expected depth and bottom time left unset, got %v/%v", p.Depth, p.BottomTime)
	}
}

func TestAscentPolicy_RateFrom(t *testing.T) {
	banded := AscentPolicy{Mode: AscentBanded, Rate: 10, DeepRate: 6, ShallowRate: 9, ShallowThreshold: 21}
	flat := AscentPolicy{Mode: AscentFlat, Rate: 10, DeepRate: 6, ShallowRate: 9, ShallowThreshold: 21}

	tests := []struct {
		name   string
		policy AscentPolicy
		depth  float64
		want   float64
	}{
		{"flat deep", flat, 40, 10},
		{"flat shallow", flat, 6, 10},
		{"banded below threshold", banded, 40, 6},
		{"banded at threshold", banded, 21, 9},
		{"banded shallow", banded, 12, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.RateFrom(tt.depth); got != tt.want {
				t.Errorf("Expected rate %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGasMix_N2AndPercent(t *testing.T) {
	mix := GasMix{O2: 0.18, He: 0.45}

	if n2 := mix.N2(); n2 < 0.369 || n2 > 0.371 {
		t.Errorf("Expected N2 0.37, got %v", n2)
	}
	o2, he := mix.Percent()
	if o2 != 18 || he != 45 {
		t.Errorf("Expected 18/45, got %d/%d", o2, he)
	}
}

func TestScheduleEvent_DepthRange(t *testing.T) {
	tests := []struct {
		event ScheduleEvent
		want  string
	}{
		{ScheduleEvent{Phase: PhaseDescent, FromDepth: 0, ToDepth: 40}, "0-40m"},
		{ScheduleEvent{Phase: PhaseBottom, FromDepth: 40, ToDepth: 40}, "40m"},
		{ScheduleEvent{Phase: PhaseAscent, FromDepth: 40.5, ToDepth: 12}, "40.5-12m"},
	}

	for _, tt := range tests {
		if got := tt.event.DepthRange(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestPlanResult_Summary(t *testing.T) {
	plan := &PlanResult{
		Rows:           []ScheduleRow{{Depth: 6, Minutes: 3, Gas: "Air"}},
		TotalRuntime:   30,
		TotalDecoTime:  3,
		FirstStopDepth: 6,
		BottomGas:      "Air",
		Schedule:       []ScheduleEvent{{Phase: PhaseDescent}},
	}

	s := plan.Summary()
	if s.TotalDecoTime != 3 || s.TotalRuntime != 30 || len(s.Rows) != 1 {
		t.Errorf("Summary lost fields: %+v", s)
	}
}
