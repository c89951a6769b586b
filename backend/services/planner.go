// ABOUTME: Decompression planner for a single square dive profile
// ABOUTME: Simulates descent, bottom, stop search, and ascent to build the schedule

package services

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

const (
	stopInterval       = 3    // m between stops
	ceilingTolerance   = 0.1  // m, keeps the stop search from oscillating on float noise
	maxStopMinutes     = 1000 // per stop
	timelineAscentStep = 0.5  // min between ascent samples
)

// DecompressionPlanner computes decompression schedules. It holds no state
// between runs and is safe for concurrent use.
type DecompressionPlanner struct{}

// NewDecompressionPlanner creates a new planner
func NewDecompressionPlanner() *DecompressionPlanner {
	return &DecompressionPlanner{}
}

// Plan validates params and runs the full simulation. On error no partial result is returned.
func (p *DecompressionPlanner) Plan(params models.DiveParameters) (*models.PlanResult, error) {
	if err := ValidateDiveParameters(params); err != nil {
		return nil, err
	}
	gases, err := NewGasMixResolver(params)
	if err != nil {
		return nil, err
	}

	run := newPlanRun(params, gases)
	if err := run.simulate(); err != nil {
		slog.Debug("Plan aborted", "depth", params.Depth, "bottom_time", params.BottomTime, "error", err)
		return nil, err
	}
	return run.result, nil
}

// planRun owns all mutable state of one planning run
type planRun struct {
	params   models.DiveParameters
	gases    *GasMixResolver
	gf       GradientFactors
	ceilings *CeilingCalculator

	state        TissueState
	firstStop    float64 // GF interpolation anchor, fixed after the bottom phase
	previousStop float64 // depth the next scheduled ascent starts from
	elapsed      float64 // runtime, minutes

	result *models.PlanResult
}

func newPlanRun(params models.DiveParameters, gases *GasMixResolver) *planRun {
	gf := GradientFactors{Low: params.GFLow, High: params.GFHigh}
	return &planRun{
		params:   params,
		gases:    gases,
		gf:       gf,
		ceilings: NewCeilingCalculator(gf),
		state:    NewTissueState(),
		result: &models.PlanResult{
			Rows:      []models.ScheduleRow{},
			BottomGas: gases.BottomLabel(),
		},
	}
}

func (r *planRun) simulate() error {
	depth := r.params.Depth

	// Descent only feeds the timeline; the carried state starts loading at the bottom.
	r.sampleDescent()
	descent := depth / r.params.DescentRate
	r.elapsed += descent
	r.event(models.PhaseDescent, 0, depth, r.params.DescentRate, descent)

	bottom := r.gases.Bottom()
	r.sample(r.elapsed, depth, models.PhaseBottom, r.state)
	for t := 0.0; t < r.params.BottomTime; t++ {
		r.state = r.state.Breathe(depth, bottom, 1)
		r.sample(r.elapsed+t+1, depth, models.PhaseBottom, r.state)
	}
	r.elapsed += r.params.BottomTime
	r.event(models.PhaseBottom, depth, depth, 0, r.params.BottomTime)

	r.firstStop = r.seedFirstStop()
	r.snapshot(models.PhaseBottom, "Bottom", depth)
	r.previousStop = depth

	last := r.params.LastStopDepth
	for d := int(r.firstStop); d > last; d -= stopInterval {
		gas := r.gases.DecoGasAt(float64(d))
		before := r.state
		minutes, err := r.clearCeiling(d, gas)
		if err != nil {
			return err
		}
		if minutes == 0 {
			r.passThrough(d, gas)
			continue
		}
		r.recordStop(d, minutes, gas, before, false)
	}

	if last > 0 {
		gas := r.gases.DecoGasAt(float64(last))
		before := r.state
		minutes, err := r.clearCeiling(last, gas)
		if err != nil {
			return err
		}
		if minutes > 0 {
			r.recordStop(last, minutes, gas, before, true)
		}
		r.finalAscent(last, gas)
	}

	r.snapshot(models.PhaseSurface, "Surface", 0)
	r.sample(r.elapsed, 0, models.PhaseSurface, r.state)

	r.result.TotalRuntime = int(math.Ceil(r.elapsed))
	if len(r.result.Rows) > 0 {
		r.result.FirstStopDepth = r.result.Rows[0].Depth
	}
	return nil
}

// seedFirstStop returns the ceiling at the bottom rounded up to the stop grid. It is
// never deeper than the deepest grid depth above the bottom.
func (r *planRun) seedFirstStop() float64 {
	depth := r.params.Depth
	ceiling := r.ceilings.Ceiling(r.state, depth, depth)
	first := math.Ceil(ceiling/stopInterval) * stopInterval
	if deepest := math.Floor(depth/stopInterval) * stopInterval; first > deepest {
		first = deepest
	}
	return first
}

// clearCeiling holds at depth one minute at a time until the ceiling is shallower
// than the stop, returning the minutes spent.
func (r *planRun) clearCeiling(depth int, gas models.GasMix) (int, error) {
	d := float64(depth)
	minutes := 0
	for r.ceilings.Ceiling(r.state, d, r.firstStop) > d-ceilingTolerance {
		if minutes == maxStopMinutes {
			return 0, &ExcessiveDecompressionError{Depth: depth, Minutes: minutes}
		}
		r.state = r.state.Breathe(d, gas, 1)
		minutes++
	}
	return minutes, nil
}

// passThrough off-gasses for one stop interval without scheduling anything.
func (r *planRun) passThrough(depth int, gas models.GasMix) {
	if r.previousStop <= float64(depth) {
		return
	}
	rate := r.params.Ascent.RateFrom(r.previousStop)
	r.state = r.state.Breathe(float64(depth), gas, stopInterval/rate)
}

// recordStop schedules a stop whose minutes were already loaded into the state,
// preceded by the ascent from the previous stop when the diver has moved. Unless
// helium is set, that ascent loads nitrogen only and helium off-gasses against zero
// inspired pressure, which is how every stop above the last one is planned.
func (r *planRun) recordStop(depth, minutes int, gas models.GasMix, before TissueState, helium bool) {
	d := float64(depth)
	r.result.Rows = append(r.result.Rows, models.ScheduleRow{
		Depth:   depth,
		Minutes: minutes,
		Gas:     r.gases.LabelAt(d),
	})
	r.result.TotalDecoTime += minutes

	stopState := before
	if r.previousStop != d {
		from := r.previousStop
		rate := r.params.Ascent.RateFrom(from)
		ascent := (from - d) / rate

		stopState = r.sampleAscent(before, from, d, rate, gas, r.elapsed)
		r.elapsed += ascent
		r.event(models.PhaseAscent, from, d, rate, ascent)
		if helium {
			r.state = r.state.Breathe(from, gas, ascent)
		} else {
			r.state = r.state.Update(InspiredPressure(from, gas.N2()), 0, ascent)
		}
	}

	r.sampleStop(stopState, d, gas, minutes, r.elapsed)
	r.elapsed += float64(minutes)
	r.event(models.PhaseStop, d, d, 0, float64(minutes))
	r.snapshot(models.PhaseStop, fmt.Sprintf("Stop @ %dm", depth), d)
	r.previousStop = d
}

// finalAscent surfaces from the last stop depth.
func (r *planRun) finalAscent(last int, gas models.GasMix) {
	from := float64(last)
	rate := r.params.Ascent.RateFrom(from)
	ascent := from / rate

	r.sampleAscent(r.state, from, 0, rate, gas, r.elapsed)
	r.elapsed += ascent
	r.event(models.PhaseAscent, from, 0, rate, ascent)
	r.state = r.state.Breathe(from, gas, ascent)
}

func (r *planRun) event(phase models.Phase, from, to, rate, minutes float64) {
	r.result.Schedule = append(r.result.Schedule, models.ScheduleEvent{
		Phase:       phase,
		FromDepth:   from,
		ToDepth:     to,
		Rate:        rate,
		Minutes:     int(math.Ceil(minutes)),
		Accumulated: int(math.Ceil(r.elapsed)),
	})
}

func (r *planRun) snapshot(phase models.Phase, label string, depth float64) {
	gf := r.gf.At(depth, r.firstStop)
	r.result.TissueSnapshots = append(r.result.TissueSnapshots, models.TissueSnapshot{
		Phase:        phase,
		Label:        label,
		Depth:        depth,
		Time:         int(math.Ceil(r.elapsed)),
		Leading:      r.ceilings.LeadingCompartment(r.state, depth, r.firstStop),
		Compartments: readings(r.state, gf),
	})
}

// sample appends a timeline entry. Timeline M-values anchor the gradient factor at
// the sample depth itself rather than at the first stop.
func (r *planRun) sample(time, depth float64, phase models.Phase, state TissueState) {
	r.result.TissueTimeline = append(r.result.TissueTimeline, models.TimelineSample{
		Time:         time,
		Depth:        depth,
		Phase:        phase,
		Compartments: readings(state, r.gf.At(depth, depth)),
	})
}

// sampleDescent integrates a fresh descent for each sample depth, independent of
// the carried state.
func (r *planRun) sampleDescent() {
	depth := r.params.Depth
	step := math.Max(1, math.Ceil(depth/10))
	bottom := r.gases.Bottom()
	for d := 0.0; d <= depth; d += step {
		t := d / r.params.DescentRate
		s := NewTissueState()
		for i := 0.0; i < t; i++ {
			s = s.Breathe(d, bottom, 1)
		}
		r.sample(t, d, models.PhaseDescent, s)
	}
}

// sampleAscent records the ascent at half-minute resolution and returns the
// integrated state on arrival.
func (r *planRun) sampleAscent(state TissueState, from, to, rate float64, gas models.GasMix, start float64) TissueState {
	duration := (from - to) / rate
	for t := 0.0; t < duration; t += timelineAscentStep {
		depth := from - rate*t
		r.sample(start+t, depth, models.PhaseAscent, state)
		state = state.Breathe(depth, gas, math.Min(timelineAscentStep, duration-t))
	}
	return state
}

func (r *planRun) sampleStop(state TissueState, depth float64, gas models.GasMix, minutes int, start float64) {
	for k := 0; k <= minutes; k++ {
		r.sample(start+float64(k), depth, models.PhaseStop, state)
		state = state.Breathe(depth, gas, 1)
	}
}

func readings(state TissueState, gf float64) []models.CompartmentReading {
	out := make([]models.CompartmentReading, CompartmentCount)
	for i, t := range state {
		m := MValue(t, i, gf)
		saturation := 0.0
		if m > 0 {
			saturation = t.Total() / m * 100
		}
		out[i] = models.CompartmentReading{
			Compartment: i + 1,
			Label:       Compartments[i].Label,
			N2:          t.N2,
			He:          t.He,
			Total:       t.Total(),
			MValue:      m,
			Saturation:  saturation,
		}
	}
	return out
}
