// ABOUTME: Compare command for the decoplan CLI
// ABOUTME: Plans several YAML dive plans side by side

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
)

var compareCmd = &cobra.Command{
	Use:   "compare PLAN.yaml [PLAN.yaml...]",
	Short: "Compare several dive plans",
	Long: `Plan every given YAML dive plan and show runtime and deco time side by side.

Example:
  decoplan compare samples/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCompare(ctx, args, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// runCompare executes the compare command and returns exit code
func runCompare(ctx context.Context, paths []string, w io.Writer) int {
	sys, err := GetUnits()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	names := make([]string, len(paths))
	profiles := make([]models.DiveParameters, len(paths))
	for i, path := range paths {
		plan, err := diveplan.Load(path)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if profiles[i], err = plan.Metric(); err != nil {
			fmt.Fprintf(w, "Error: %s: %v\n", path, err)
			return 2
		}
		names[i] = plan.Name
		if names[i] == "" {
			names[i] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}

	resp, err := planning.New(IsLocal(), GetAPIURL()).Compare(ctx, profiles)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", describePlanError(err))
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(resp))
	} else {
		fmt.Fprintln(w, formatCompareHuman(names, profiles, resp, sys))
	}
	return 0
}
