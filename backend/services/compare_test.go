// ABOUTME: Tests for concurrent profile comparison
// ABOUTME: Checks ordering, error propagation, and cancellation

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

func TestProfileComparer_PreservesOrder(t *testing.T) {
	shallow := refParams()
	shallow.Depth = 12
	deep := refParams()
	conservative := refParams()
	conservative.GFLow, conservative.GFHigh = 0.5, 0.8

	c := NewProfileComparer(NewDecompressionPlanner(), 2)
	plans, err := c.Compare(context.Background(), []models.DiveParameters{shallow, deep, conservative})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []int{0, 16, 18}
	if len(plans) != len(want) {
		t.Fatalf("Expected %d plans, got %d", len(want), len(plans))
	}
	for i, deco := range want {
		if plans[i].TotalDecoTime != deco {
			t.Errorf("Plan %d: expected %d deco minutes, got %d", i, deco, plans[i].TotalDecoTime)
		}
	}
}

func TestProfileComparer_NamesFailingProfile(t *testing.T) {
	bad := refParams()
	bad.Depth = -5

	c := NewProfileComparer(NewDecompressionPlanner(), 0)
	plans, err := c.Compare(context.Background(), []models.DiveParameters{refParams(), bad})
	if plans != nil {
		t.Error("Expected no plans on error")
	}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected ErrInvalidParameter, got %v", err)
	}
	if !strings.Contains(err.Error(), "profile 1") {
		t.Errorf("Expected error to name profile 1, got %q", err.Error())
	}
}

func TestProfileComparer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewProfileComparer(NewDecompressionPlanner(), 1)
	_, err := c.Compare(ctx, []models.DiveParameters{refParams()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProfileComparer_Empty(t *testing.T) {
	c := NewProfileComparer(NewDecompressionPlanner(), 4)
	plans, err := c.Compare(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("Expected no plans, got %d", len(plans))
	}
}
