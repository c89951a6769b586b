// ABOUTME: Parallel planning of independent dive profiles for side-by-side comparison
// ABOUTME: Runs one planner call per profile with a bounded worker count

package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"golang.org/x/sync/errgroup"
)

// ProfileComparer plans several profiles concurrently
type ProfileComparer struct {
	planner *DecompressionPlanner
	workers int
}

// NewProfileComparer creates a comparer. workers <= 0 uses GOMAXPROCS.
func NewProfileComparer(planner *DecompressionPlanner, workers int) *ProfileComparer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ProfileComparer{planner: planner, workers: workers}
}

// Compare plans every profile and returns results in input order. The first
// failing profile cancels the rest; its error names the profile index.
func (c *ProfileComparer) Compare(ctx context.Context, profiles []models.DiveParameters) ([]*models.PlanResult, error) {
	results := make([]*models.PlanResult, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, params := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := c.planner.Plan(params)
			if err != nil {
				return fmt.Errorf("profile %d: %w", i, err)
			}
			results[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
