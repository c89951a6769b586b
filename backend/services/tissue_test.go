// ABOUTME: Tests for tissue compartment loading
// ABOUTME: Pins Haldane updates against known compartment pressures

package services

import (
	"math"
	"testing"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewTissueState_SurfaceEquilibrium(t *testing.T) {
	s := NewTissueState()

	for i, tissue := range s {
		if tissue.N2 != 0.79 {
			t.Errorf("Compartment %d: expected N2 0.79, got %v", i+1, tissue.N2)
		}
		if tissue.He != 0 {
			t.Errorf("Compartment %d: expected He 0, got %v", i+1, tissue.He)
		}
	}
}

func TestInspiredPressure(t *testing.T) {
	// (1 + 40/10 - 0.0627) * 0.79
	got := InspiredPressure(40, 0.79)
	if !approxEqual(got, 3.900467, 1e-9) {
		t.Errorf("Expected 3.900467, got %v", got)
	}

	if got := InspiredPressure(0, 1); !approxEqual(got, 0.9373, 1e-12) {
		t.Errorf("Expected 0.9373 at surface, got %v", got)
	}
}

func TestTissueState_UpdateAfterBottomPhase(t *testing.T) {
	// 20 one-minute updates at 40 m on air
	s := NewTissueState()
	air := models.GasMix{O2: 0.21}
	for i := 0; i < 20; i++ {
		s = s.Breathe(40, air, 1)
	}

	if !approxEqual(s[0].N2, 3.80326490625, 1e-9) {
		t.Errorf("Expected compartment 1 N2 3.80326490625, got %v", s[0].N2)
	}
	if !approxEqual(s[15].N2, 0.8571699962739087, 1e-9) {
		t.Errorf("Expected compartment 16 N2 0.85717, got %v", s[15].N2)
	}
	if s[0].He != 0 {
		t.Errorf("Expected no helium on air, got %v", s[0].He)
	}
}

func TestTissueState_UpdateTrimix(t *testing.T) {
	s := NewTissueState()
	mix := models.GasMix{O2: 0.18, He: 0.45}
	for i := 0; i < 20; i++ {
		s = s.Breathe(50, mix, 1)
	}

	if !approxEqual(s[0].N2, 2.15283846875, 1e-9) {
		t.Errorf("Expected compartment 1 N2 2.15284, got %v", s[0].N2)
	}
	if !approxEqual(s[0].He, 2.6715097994821115, 1e-9) {
		t.Errorf("Expected compartment 1 He 2.67151, got %v", s[0].He)
	}
}

func TestTissueState_UpdateOneHalfTime(t *testing.T) {
	s := NewTissueState()
	// Compartment 1 has a 4 minute N2 half-time: halfway to the inspired pressure.
	next := s.Update(2.79, 0, 4)

	if !approxEqual(next[0].N2, 1.79, 1e-12) {
		t.Errorf("Expected 1.79 after one half-time, got %v", next[0].N2)
	}
	if s[0].N2 != 0.79 {
		t.Errorf("Update must not mutate the receiver, got %v", s[0].N2)
	}
}

func TestTissueState_ZeroMinutesIsIdentity(t *testing.T) {
	s := NewTissueState().Update(3, 1, 10)
	if next := s.Update(5, 5, 0); next != s {
		t.Error("Expected zero-minute update to leave the state unchanged")
	}
}

func TestCompartmentTable(t *testing.T) {
	table := CompartmentTable()

	if len(table) != CompartmentCount {
		t.Fatalf("Expected %d compartments, got %d", CompartmentCount, len(table))
	}
	if table[0].Label != "Blood/Lung" || table[0].N2HalfTime != 4 {
		t.Errorf("Unexpected first compartment: %+v", table[0])
	}
	if table[15].Label != "Bone (slow)" || table[15].HeHalfTime != 240.03 {
		t.Errorf("Unexpected last compartment: %+v", table[15])
	}
	for i := 1; i < len(table); i++ {
		if table[i].N2HalfTime <= table[i-1].N2HalfTime {
			t.Errorf("Half-times must increase: compartment %d", i+1)
		}
	}
}
