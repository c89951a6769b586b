// ABOUTME: Gradient factor interpolation and ceiling calculation
// ABOUTME: Finds the deepest GF-adjusted tolerated pressure across all compartments

package services

// GradientFactors is the low/high conservatism pair, as fractions
type GradientFactors struct {
	Low  float64
	High float64
}

// At returns the gradient factor at depth, interpolated linearly between Low at
// firstStop and High at the surface. Depths at or beyond firstStop get Low.
func (g GradientFactors) At(depth, firstStop float64) float64 {
	if depth >= firstStop {
		return g.Low
	}
	if depth <= 0 {
		return g.High
	}
	return g.Low + (g.High-g.Low)*(firstStop-depth)/firstStop
}

// toleratedAmbient returns the ambient pressure a compartment tolerates under the
// ZH-L16C coefficients weighted by each gas's share. ok is false for an empty tissue.
func toleratedAmbient(t Tissue, c Compartment) (pressure float64, ok bool) {
	pt := t.Total()
	if pt == 0 {
		return 0, false
	}
	a := (c.N2A*t.N2 + c.HeA*t.He) / pt
	b := (c.N2B*t.N2 + c.HeB*t.He) / pt
	return (pt - a) / b, true
}

// MValue returns the GF-adjusted tolerated ambient pressure (bar) of one compartment.
func MValue(t Tissue, index int, gf float64) float64 {
	tolerated, ok := toleratedAmbient(t, Compartments[index])
	if !ok {
		return 0
	}
	return surfacePressure + gf*(tolerated-surfacePressure)
}

// CeilingCalculator finds the shallowest depth the tissues allow
type CeilingCalculator struct {
	gf GradientFactors
}

// NewCeilingCalculator creates a calculator for the given gradient factors.
func NewCeilingCalculator(gf GradientFactors) *CeilingCalculator {
	return &CeilingCalculator{gf: gf}
}

// Ceiling returns the ceiling depth (m) for state with the gradient factor taken at
// depth relative to firstStop. Negative results mean surfacing is allowed with margin.
func (c *CeilingCalculator) Ceiling(state TissueState, depth, firstStop float64) float64 {
	allowed, _ := c.leading(state, depth, firstStop)
	return (allowed - surfacePressure) * 10
}

// LeadingCompartment returns the 1-based index of the compartment setting the ceiling,
// or 0 when every compartment is empty.
func (c *CeilingCalculator) LeadingCompartment(state TissueState, depth, firstStop float64) int {
	_, idx := c.leading(state, depth, firstStop)
	return idx + 1
}

func (c *CeilingCalculator) leading(state TissueState, depth, firstStop float64) (float64, int) {
	gf := c.gf.At(depth, firstStop)
	maxAllowed, leader := 0.0, -1
	for i, t := range state {
		if t.Total() == 0 {
			continue
		}
		allowed := MValue(t, i, gf)
		if allowed > maxAllowed {
			maxAllowed, leader = allowed, i
		}
	}
	return maxAllowed, leader
}
