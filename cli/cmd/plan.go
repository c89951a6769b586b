// ABOUTME: Plan command for the decoplan CLI
// ABOUTME: Computes one decompression plan from flags or a YAML file, optionally re-planning on save

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/client"
	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

var (
	planParams   paramFlags
	planSchedule bool
	planWatch    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a decompression plan",
	Long: `Compute a decompression plan for a single-level dive.

Depth and rate flags are read in the selected units (--units). Gradient
factors are given in percent.

Examples:
  decoplan plan --depth 40 --time 20 --deco-gas none --last-stop 3
  decoplan plan --file samples/trimix-60m.yaml --schedule
  decoplan plan --file dive.yaml --watch

Exit codes:
  0 - Plan computed
  2 - Error (invalid parameters, excessive decompression, connectivity)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPlan(ctx, cmd, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addParamFlags(planCmd, &planParams)
	planCmd.Flags().BoolVar(&planSchedule, "schedule", false, "Include the full dive schedule")
	planCmd.Flags().BoolVarP(&planWatch, "watch", "w", false, "Re-plan whenever --file changes")
}

// runPlan executes the plan command and returns exit code
func runPlan(ctx context.Context, cmd *cobra.Command, w io.Writer) int {
	sys, err := GetUnits()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if planWatch && planParams.file == "" {
		fmt.Fprintln(w, "Error: --watch requires --file")
		return 2
	}

	params, name, err := planParams.resolve(cmd, sys)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	src := planning.New(IsLocal(), GetAPIURL())
	code := planOnce(ctx, src, w, name, params, sys)
	if !planWatch {
		return code
	}

	fmt.Fprintf(w, "\nWatching %s for changes (Ctrl+C to stop)\n", planParams.file)
	err = diveplan.Watch(ctx, planParams.file,
		func(plan *diveplan.Plan) {
			fmt.Fprintln(w)
			params, err := plan.Metric()
			if err == nil {
				// Flags still override what the file says.
				planParams.apply(cmd, sys, &params)
				planOnce(ctx, src, w, plan.Name, params, sys)
				return
			}
			fmt.Fprintf(w, "Error: %v\n", err)
		},
		func(err error) {
			fmt.Fprintf(w, "Error: %v\n", err)
		})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}

func planOnce(ctx context.Context, src planning.Source, w io.Writer, name string, params models.DiveParameters, sys units.System) int {
	result, err := src.Plan(ctx, params, false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", describePlanError(err))
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(result))
	} else {
		fmt.Fprintln(w, formatPlanHuman(name, params, result, sys, planSchedule))
	}
	return 0
}

// isExcessiveDecompression matches the refusal from either planning source.
func isExcessiveDecompression(err error) bool {
	return client.IsExcessiveDecompression(err) || errors.Is(err, services.ErrExcessiveDecompressionTime)
}

// describePlanError adds a hint for plans the model refuses to compute.
func describePlanError(err error) error {
	if isExcessiveDecompression(err) {
		return fmt.Errorf("%w\nThe dive needs more decompression than the planner allows; reduce depth or bottom time", err)
	}
	return err
}
