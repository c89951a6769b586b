// ABOUTME: ZH-L16C tissue compartment table and inert gas loading
// ABOUTME: Haldane single-exponential update for nitrogen and helium per compartment

package services

import (
	"math"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

// CompartmentCount is the number of ZH-L16C tissue compartments.
const CompartmentCount = 16

const (
	surfacePressure     = 1.0    // bar
	waterVaporPressure  = 0.0627 // bar, alveolar
	surfaceN2Saturation = 0.79   // bar, equilibrium with air at the surface
)

// Compartment holds the fixed half-times (min) and Workman coefficients of one tissue
type Compartment struct {
	Label      string
	N2HalfTime float64
	HeHalfTime float64
	N2A        float64
	N2B        float64
	HeA        float64
	HeB        float64
}

// Compartments is the ZH-L16C coefficient table, fastest tissue first.
var Compartments = [CompartmentCount]Compartment{
	{"Blood/Lung", 4, 1.51, 1.2599, 0.5050, 1.7424, 0.4245},
	{"Brain", 8, 3.02, 1.1696, 0.6514, 1.6189, 0.4770},
	{"Spinal Cord", 12.5, 4.72, 1.0000, 0.7222, 1.3830, 0.5747},
	{"Muscle (fast)", 18.5, 6.99, 0.8618, 0.7825, 1.1919, 0.6527},
	{"Muscle", 27, 10.21, 0.7562, 0.8126, 1.0458, 0.7223},
	{"Muscle (med)", 38.3, 14.48, 0.6667, 0.8434, 0.9220, 0.7582},
	{"Muscle (slow)", 54.3, 20.53, 0.5933, 0.8693, 0.8205, 0.7957},
	{"Fat (fast)", 77, 29.11, 0.5282, 0.8910, 0.7305, 0.8279},
	{"Fat", 109, 41.2, 0.4701, 0.9092, 0.6502, 0.8553},
	{"Fat (med)", 146, 55.19, 0.4187, 0.9222, 0.5950, 0.8757},
	{"Fat (slow)", 187, 70.69, 0.3798, 0.9319, 0.5545, 0.8903},
	{"Cartilage (fast)", 239, 90.34, 0.3497, 0.9403, 0.5333, 0.8997},
	{"Cartilage", 305, 115.29, 0.3223, 0.9477, 0.5189, 0.9073},
	{"Bone Marrow", 390, 147.42, 0.2971, 0.9544, 0.5181, 0.9122},
	{"Bone", 498, 188.24, 0.2737, 0.9602, 0.5176, 0.9171},
	{"Bone (slow)", 635, 240.03, 0.2523, 0.9653, 0.5172, 0.9217},
}

// CompartmentTable returns the coefficient table for the reference endpoint.
func CompartmentTable() []models.CompartmentInfo {
	out := make([]models.CompartmentInfo, CompartmentCount)
	for i, c := range Compartments {
		out[i] = models.CompartmentInfo{
			Compartment: i + 1,
			Label:       c.Label,
			N2HalfTime:  c.N2HalfTime,
			HeHalfTime:  c.HeHalfTime,
			N2A:         c.N2A,
			N2B:         c.N2B,
			HeA:         c.HeA,
			HeB:         c.HeB,
		}
	}
	return out
}

// Tissue is the inert gas partial pressure (bar) held by one compartment
type Tissue struct {
	N2 float64
	He float64
}

// Total returns the combined inert gas pressure.
func (t Tissue) Total() float64 {
	return t.N2 + t.He
}

// TissueState is the loading of all compartments. It is a value type; Update returns a copy.
type TissueState [CompartmentCount]Tissue

// NewTissueState returns tissues in equilibrium with air at the surface.
func NewTissueState() TissueState {
	var s TissueState
	for i := range s {
		s[i] = Tissue{N2: surfaceN2Saturation}
	}
	return s
}

// AmbientPressure returns absolute pressure (bar) at depth in metres of seawater.
func AmbientPressure(depth float64) float64 {
	return surfacePressure + depth/10
}

// InspiredPressure returns the alveolar partial pressure of a gas fraction at depth.
func InspiredPressure(depth, fraction float64) float64 {
	return (AmbientPressure(depth) - waterVaporPressure) * fraction
}

// Update loads or unloads every compartment for the given minutes at constant
// inspired partial pressures.
func (s TissueState) Update(pN2, pHe, minutes float64) TissueState {
	for i, c := range Compartments {
		s[i].N2 = haldane(s[i].N2, pN2, c.N2HalfTime, minutes)
		s[i].He = haldane(s[i].He, pHe, c.HeHalfTime, minutes)
	}
	return s
}

// Breathe updates the state for the given minutes breathing mix at depth.
func (s TissueState) Breathe(depth float64, mix models.GasMix, minutes float64) TissueState {
	return s.Update(InspiredPressure(depth, mix.N2()), InspiredPressure(depth, mix.He), minutes)
}

func haldane(p0, pInspired, halfTime, minutes float64) float64 {
	k := math.Ln2 / halfTime
	return p0 + (pInspired-p0)*(1-math.Exp(-k*minutes))
}
