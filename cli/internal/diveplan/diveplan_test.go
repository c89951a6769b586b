// ABOUTME: Tests for YAML dive plan loading, validation, and saving
// ABOUTME: Covers default filling, unknown keys, imperial files, and watching

package diveplan

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
)

const referencePlan = `name: Reference 40m
depth: 40
bottom_time: 20
deco_gas: none
last_stop_depth: 3
`

func TestParse_AppliesDefaults(t *testing.T) {
	plan, err := Parse([]byte(referencePlan))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if plan.Name != "Reference 40m" {
		t.Errorf("Expected name 'Reference 40m', got %q", plan.Name)
	}
	if plan.Depth != 40 || plan.BottomTime != 20 {
		t.Errorf("Expected 40 m for 20 min, got %v m for %v min", plan.Depth, plan.BottomTime)
	}
	if plan.DecoGas != models.DecoGasNone {
		t.Errorf("Expected deco gas none, got %q", plan.DecoGas)
	}
	if plan.LastStopDepth != 3 {
		t.Errorf("Expected last stop 3, got %d", plan.LastStopDepth)
	}
	if plan.GFLow != 0.30 || plan.GFHigh != 0.85 {
		t.Errorf("Expected default GF 0.30/0.85, got %v/%v", plan.GFLow, plan.GFHigh)
	}
	if plan.Ascent.Mode != models.AscentFlat || plan.Ascent.Rate != 10 {
		t.Errorf("Expected default flat ascent at 10, got %s at %v", plan.Ascent.Mode, plan.Ascent.Rate)
	}
}

func TestParse_NestedOverride(t *testing.T) {
	plan, err := Parse([]byte(`depth: 50
bottom_time: 15
bottom_gas: trimix-18/45
ascent:
  mode: banded
`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.Ascent.Mode != models.AscentBanded {
		t.Errorf("Expected banded ascent, got %q", plan.Ascent.Mode)
	}
	if plan.Ascent.DeepRate != 6 || plan.Ascent.ShallowThreshold != 21 {
		t.Errorf("Expected banded defaults to survive, got deep %v threshold %v",
			plan.Ascent.DeepRate, plan.Ascent.ShallowThreshold)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"unknown key", "depth: 40\nbottom_time: 20\ngf_lo: 0.3\n", "gf_lo"},
		{"missing depth", "bottom_time: 20\n", "depth"},
		{"missing bottom time", "depth: 40\n", "bottom_time"},
		{"bad units", "depth: 40\nbottom_time: 20\nunits: cubits\n", "unit system"},
		{"not yaml", "depth: [40\n", "parsing plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_PlannerValidation(t *testing.T) {
	_, err := Parse([]byte("depth: 40\nbottom_time: 20\ngf_low: 0.9\ngf_high: 0.5\n"))
	if !errors.Is(err, services.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}

	_, err = Parse([]byte("depth: 40\nbottom_time: 20\ndeco_gas: heliox\n"))
	if !errors.Is(err, services.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestParse_RejectsNonFiniteValues(t *testing.T) {
	for _, doc := range []string{
		"depth: 60\nbottom_time: 30\ngf_low: .nan\n",
		"depth: .inf\nbottom_time: 20\n",
		"depth: 40\nbottom_time: 20\nascent:\n  rate: .nan\n",
	} {
		if _, err := Parse([]byte(doc)); !errors.Is(err, services.ErrInvalidParameter) {
			t.Errorf("Expected ErrInvalidParameter for %q, got %v", doc, err)
		}
	}
}

func TestMetric_Imperial(t *testing.T) {
	plan, err := Parse([]byte("units: imperial\ndepth: 130\nbottom_time: 20\nlast_stop_depth: 20\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	params, err := plan.Metric()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(params.Depth-39.624) > 0.001 {
		t.Errorf("Expected ~39.624 m, got %f", params.Depth)
	}
	if params.LastStopDepth != 6 {
		t.Errorf("Expected last stop 6 m, got %d", params.LastStopDepth)
	}
	if plan.Depth != 130 {
		t.Errorf("Expected plan to keep its own units, got depth %v", plan.Depth)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "deep.yaml")

	plan := New("Deep trimix")
	plan.Depth = 60
	plan.BottomTime = 20
	plan.BottomGas = models.BottomGasTrimix1845
	plan.DecoGas = models.DecoGasNitroxOxygen

	if err := Save(path, plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *plan {
		t.Errorf("Expected %+v, got %+v", plan, loaded)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading plan file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestLoad_BundledSamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "samples", "*.yaml"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("Expected bundled sample plans")
	}

	planner := services.NewDecompressionPlanner()
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			plan, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if plan.Name == "" {
				t.Error("Expected sample to be named")
			}
			params, err := plan.Metric()
			if err != nil {
				t.Fatalf("Metric failed: %v", err)
			}
			if _, err := planner.Plan(params); err != nil {
				t.Errorf("Expected sample to plan, got %v", err)
			}
		})
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(referencePlan), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Plan, 16)
	done := make(chan error, 1)
	go func() {
		// Truncated mid-write reads can fail to parse; only the final content matters.
		done <- Watch(ctx, path, func(p *Plan) { changes <- p }, func(error) {})
	}()

	updated := strings.Replace(referencePlan, "bottom_time: 20", "bottom_time: 25", 1)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(5 * time.Second)

	for {
		select {
		case p := <-changes:
			if p.BottomTime != 25 {
				t.Errorf("Expected reloaded bottom time 25, got %v", p.BottomTime)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Expected clean shutdown, got %v", err)
			}
			return
		case <-tick.C:
			// The watcher may not be registered yet; keep saving until it sees one.
			if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}
}

func TestWatch_InvalidEditReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(referencePlan), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Plan, 16)
	errs := make(chan error, 64)
	go Watch(ctx, path, func(p *Plan) { changes <- p }, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(5 * time.Second)

	for {
		select {
		case <-changes:
			t.Fatal("Expected invalid plan not to be delivered")
		case err := <-errs:
			if strings.Contains(err.Error(), "depth") {
				return
			}
		case <-tick.C:
			if err := os.WriteFile(path, []byte("depth: -1\nbottom_time: 20\n"), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("Timed out waiting for reload error")
		}
	}
}
