// ABOUTME: What-if redistribution of total deco minutes across stops
// ABOUTME: Shapes stop time by ascent strategy weights; never used as a safety plan

package services

import (
	"math"
	"sort"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"gonum.org/v1/gonum/floats"
)

// StrategyRedistributor reallocates a plan's deco minutes under alternative ascent
// shapes. It is pure and does not recompute tissue loading.
type StrategyRedistributor struct{}

// NewStrategyRedistributor creates a new redistributor
func NewStrategyRedistributor() *StrategyRedistributor {
	return &StrategyRedistributor{}
}

// strategyWeight returns the weight of a stop at relative position x in [0, 1],
// 0 being the deepest stop.
func strategyWeight(strategy string, x float64) (float64, bool) {
	switch strategy {
	case models.StrategyUniform:
		return 1, true
	case models.StrategyLinear:
		return 1 + x, true
	case models.StrategySCurve:
		return 0.5 + 1/(1+math.Exp(-6*(x-0.5))), true
	case models.StrategyExponential:
		return math.Exp(2 * x), true
	}
	return 0, false
}

// Redistribute spreads totalDeco over the stops in rows by strategy weight. The
// returned minutes always sum to totalDeco.
func (s *StrategyRedistributor) Redistribute(rows []models.ScheduleRow, totalDeco int, strategy string) ([]models.StrategyStop, error) {
	n := len(rows)
	if _, ok := strategyWeight(strategy, 0); !ok {
		return nil, invalidConfiguration("strategy", strategy)
	}
	if totalDeco < 0 {
		return nil, invalidParameter("total_deco_time", "must not be negative, got %d", totalDeco)
	}
	stops := make([]models.StrategyStop, n)
	if n == 0 {
		return stops, nil
	}

	weights := make([]float64, n)
	for i := range weights {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		weights[i], _ = strategyWeight(strategy, x)
	}
	floats.Scale(float64(totalDeco)/floats.Sum(weights), weights)

	assigned := 0
	remainders := make([]float64, n)
	for i, w := range weights {
		whole := math.Floor(w)
		remainders[i] = w - whole
		stops[i] = models.StrategyStop{
			Depth:           rows[i].Depth,
			Minutes:         int(whole),
			OriginalMinutes: rows[i].Minutes,
		}
		assigned += int(whole)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < totalDeco; k++ {
		stops[order[k%n]].Minutes++
		assigned++
	}

	return stops, nil
}

// CompareStrategies runs every strategy over the same plan, in display order.
func (s *StrategyRedistributor) CompareStrategies(rows []models.ScheduleRow, totalDeco int) []models.StrategyPlan {
	plans := make([]models.StrategyPlan, 0, len(models.Strategies))
	for _, strategy := range models.Strategies {
		stops, err := s.Redistribute(rows, totalDeco, strategy)
		if err != nil {
			continue
		}
		plans = append(plans, models.StrategyPlan{
			Strategy:      strategy,
			Stops:         stops,
			TotalDecoTime: totalDeco,
		})
	}
	return plans
}

// Select returns every strategy when strategy is empty, or only the named one.
func (s *StrategyRedistributor) Select(rows []models.ScheduleRow, totalDeco int, strategy string) ([]models.StrategyPlan, error) {
	if strategy == "" {
		return s.CompareStrategies(rows, totalDeco), nil
	}
	stops, err := s.Redistribute(rows, totalDeco, strategy)
	if err != nil {
		return nil, err
	}
	return []models.StrategyPlan{{
		Strategy:      strategy,
		Stops:         stops,
		TotalDecoTime: totalDeco,
	}}, nil
}
