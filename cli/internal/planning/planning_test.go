// ABOUTME: Tests for the in-process planning source
// ABOUTME: Pins the reference dive and source selection

package planning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/client"
)

func referenceDive() models.DiveParameters {
	p := models.DefaultDiveParameters()
	p.Depth = 40
	p.BottomTime = 20
	p.DecoGas = models.DecoGasNone
	p.LastStopDepth = 3
	return p
}

func TestLocal_Plan(t *testing.T) {
	result, err := NewLocal().Plan(context.Background(), referenceDive(), true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.TotalDecoTime != 16 || result.TotalRuntime != 42 {
		t.Errorf("Expected deco 16 runtime 42, got deco %d runtime %d", result.TotalDecoTime, result.TotalRuntime)
	}
	if len(result.TissueTimeline) == 0 {
		t.Error("Expected a tissue timeline")
	}
}

func TestLocal_PlanWithoutTimeline(t *testing.T) {
	result, err := NewLocal().Plan(context.Background(), referenceDive(), false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.TissueTimeline != nil {
		t.Errorf("Expected no timeline, got %d samples", len(result.TissueTimeline))
	}
}

func TestLocal_PlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal().Plan(ctx, referenceDive(), false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestLocal_RejectsOversizedDives(t *testing.T) {
	huge := referenceDive()
	huge.BottomTime = 1e8

	if _, err := NewLocal().Plan(context.Background(), huge, false); !errors.Is(err, services.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter from Plan, got %v", err)
	}

	_, err := NewLocal().Compare(context.Background(), []models.DiveParameters{referenceDive(), huge})
	if !errors.Is(err, services.ErrInvalidParameter) {
		t.Fatalf("Expected ErrInvalidParameter from Compare, got %v", err)
	}
	if !strings.Contains(err.Error(), "profile 1") {
		t.Errorf("Expected error to name profile 1, got %v", err)
	}
}

func TestLocal_Strategies(t *testing.T) {
	resp, err := NewLocal().Strategies(context.Background(), referenceDive(), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Plan.TotalDecoTime != 16 {
		t.Errorf("Expected plan deco 16, got %d", resp.Plan.TotalDecoTime)
	}
	if len(resp.Strategies) != len(models.Strategies) {
		t.Errorf("Expected %d strategies, got %d", len(models.Strategies), len(resp.Strategies))
	}

	_, err = NewLocal().Strategies(context.Background(), referenceDive(), "zigzag")
	if !errors.Is(err, services.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestLocal_Compare(t *testing.T) {
	shallow := referenceDive()
	shallow.Depth = 12

	resp, err := NewLocal().Compare(context.Background(), []models.DiveParameters{shallow, referenceDive()})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(resp.Plans) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(resp.Plans))
	}
	if resp.Plans[0].TotalDecoTime != 0 || resp.Plans[1].TotalDecoTime != 16 {
		t.Errorf("Expected deco 0 and 16 in order, got %d and %d",
			resp.Plans[0].TotalDecoTime, resp.Plans[1].TotalDecoTime)
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(true, "").(*Local); !ok {
		t.Error("Expected local source")
	}
	src, ok := New(false, "http://backend.example").(*client.Client)
	if !ok {
		t.Fatal("Expected API client")
	}
	if src.BaseURL() != "http://backend.example" {
		t.Errorf("Expected base URL http://backend.example, got %s", src.BaseURL())
	}
}
