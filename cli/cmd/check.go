// ABOUTME: Check command for the decoplan CLI
// ABOUTME: Fails when a plan exceeds deco, runtime, or first-stop limits, for scripted gates

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// checkLimits are the thresholds a plan must stay within. Zero disables one.
type checkLimits struct {
	decoMinutes    int
	runtimeMinutes int
	firstStop      float64 // in the selected unit system
}

var (
	checkParams paramFlags
	limits      checkLimits
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a plan against limits",
	Long: `Plan the dive and exit non-zero if it exceeds any of the given limits.
At least one limit is required. A limit of 0 is not checked.

Exit codes:
  0 - All checks passed
  1 - One or more limits exceeded, or the planner refused the dive
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runCheck(ctx, cmd, os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addParamFlags(checkCmd, &checkParams)
	checkCmd.Flags().IntVar(&limits.decoMinutes, "max-deco", 0, "Maximum total deco time in minutes")
	checkCmd.Flags().IntVar(&limits.runtimeMinutes, "max-runtime", 0, "Maximum total runtime in minutes")
	checkCmd.Flags().Float64Var(&limits.firstStop, "max-first-stop", 0, "Maximum first stop depth")
}

type checkResult struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Unit      string  `json:"unit"`
	Passed    bool    `json:"passed"`
}

type checkReport struct {
	Status string        `json:"status"`
	Checks []checkResult `json:"checks"`
}

func newCheckReport(results []checkResult) checkReport {
	status := "passed"
	if _, failed := countResults(results); failed > 0 {
		status = "failed"
	}
	return checkReport{Status: status, Checks: results}
}

// runCheck returns 1 when a limit is exceeded and 2 on bad input or I/O errors.
func runCheck(ctx context.Context, cmd *cobra.Command, w io.Writer) int {
	fail := func(err error) int {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := limits.validate(); err != nil {
		return fail(err)
	}
	sys, err := GetUnits()
	if err != nil {
		return fail(err)
	}
	params, _, err := checkParams.resolve(cmd, sys)
	if err != nil {
		return fail(err)
	}

	var results []checkResult
	result, err := planning.New(IsLocal(), GetAPIURL()).Plan(ctx, params, false)
	switch {
	case err == nil:
		results = limits.apply(result, sys)
	case isExcessiveDecompression(err):
		results = []checkResult{{Name: "Decompression within planner limits", Unit: "min"}}
	default:
		return fail(err)
	}

	report := newCheckReport(results)
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(report))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	if report.Status == "failed" {
		return 1
	}
	return 0
}

func (l checkLimits) validate() error {
	if l.decoMinutes < 0 || l.runtimeMinutes < 0 || l.firstStop < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if l == (checkLimits{}) {
		return fmt.Errorf("at least one of --max-deco, --max-runtime, --max-first-stop is required")
	}
	return nil
}

// apply checks the plan against every non-zero limit
func (l checkLimits) apply(result *models.PlanResult, sys units.System) []checkResult {
	var results []checkResult
	add := func(name string, value, threshold float64, unit string) {
		results = append(results, checkResult{
			Name:      name,
			Value:     value,
			Threshold: threshold,
			Unit:      unit,
			Passed:    value <= threshold,
		})
	}

	if l.decoMinutes > 0 {
		add("Deco time", float64(result.TotalDecoTime), float64(l.decoMinutes), "min")
	}
	if l.runtimeMinutes > 0 {
		add("Runtime", float64(result.TotalRuntime), float64(l.runtimeMinutes), "min")
	}
	if l.firstStop > 0 {
		add("First stop", sys.FromMetres(float64(result.FirstStopDepth)), l.firstStop, sys.DepthUnit())
	}
	return results
}

func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

func formatCheckHuman(results []checkResult) string {
	var sb strings.Builder

	for _, r := range results {
		symbol := "✓"
		if !r.Passed {
			symbol = "✗"
		}
		if r.Threshold == 0 {
			fmt.Fprintf(&sb, "%s %s\n", symbol, r.Name)
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %.0f %s (limit: %.0f %s)\n", symbol, r.Name, r.Value, r.Unit, r.Threshold, r.Unit)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		fmt.Fprintf(&sb, "\nFAILED: %d check(s) exceeded limits", failed)
	} else {
		fmt.Fprintf(&sb, "\nPASSED: All %d check(s) within limits", passed)
	}
	return sb.String()
}
