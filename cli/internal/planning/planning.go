// ABOUTME: Planning sources shared by the CLI commands and the TUI
// ABOUTME: Plans either through the backend API or in-process with the engine

package planning

import (
	"context"
	"fmt"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/client"
)

// Source computes plans. *client.Client and *Local both satisfy it.
type Source interface {
	Plan(ctx context.Context, params models.DiveParameters, withTimeline bool) (*models.PlanResult, error)
	Strategies(ctx context.Context, params models.DiveParameters, strategy string) (*models.StrategyResponse, error)
	Compare(ctx context.Context, profiles []models.DiveParameters) (*models.CompareResponse, error)
}

var (
	_ Source = (*client.Client)(nil)
	_ Source = (*Local)(nil)
)

// localWorkers bounds parallel plans for Compare.
const localWorkers = 4

// Local runs the planning engine in the current process
type Local struct {
	limits        services.Limits
	planner       *services.DecompressionPlanner
	redistributor *services.StrategyRedistributor
	comparer      *services.ProfileComparer
}

// NewLocal creates an in-process planning source
func NewLocal() *Local {
	planner := services.NewDecompressionPlanner()
	return &Local{
		limits:        services.DefaultLimits(),
		planner:       planner,
		redistributor: services.NewStrategyRedistributor(),
		comparer:      services.NewProfileComparer(planner, localWorkers),
	}
}

// New returns the in-process source when local is set, otherwise a backend
// client for apiURL.
func New(local bool, apiURL string) Source {
	if local {
		return NewLocal()
	}
	return client.New(apiURL)
}

// Plan computes a full plan.
func (l *Local) Plan(ctx context.Context, params models.DiveParameters, withTimeline bool) (*models.PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.limits.Check(params); err != nil {
		return nil, err
	}
	result, err := l.planner.Plan(params)
	if err != nil {
		return nil, err
	}
	if !withTimeline {
		result.TissueTimeline = nil
	}
	return result, nil
}

// Strategies plans the dive and redistributes its deco minutes.
func (l *Local) Strategies(ctx context.Context, params models.DiveParameters, strategy string) (*models.StrategyResponse, error) {
	result, err := l.Plan(ctx, params, false)
	if err != nil {
		return nil, err
	}
	strategies, err := l.redistributor.Select(result.Rows, result.TotalDecoTime, strategy)
	if err != nil {
		return nil, err
	}
	return &models.StrategyResponse{Plan: result.Summary(), Strategies: strategies}, nil
}

// Compare plans every profile and returns summaries in order.
func (l *Local) Compare(ctx context.Context, profiles []models.DiveParameters) (*models.CompareResponse, error) {
	for i, params := range profiles {
		if err := l.limits.Check(params); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	results, err := l.comparer.Compare(ctx, profiles)
	if err != nil {
		return nil, err
	}
	resp := &models.CompareResponse{Plans: make([]models.PlanSummary, len(results))}
	for i, result := range results {
		resp.Plans[i] = result.Summary()
	}
	return resp, nil
}
