// ABOUTME: Strategies command for the decoplan CLI
// ABOUTME: Shows how each what-if strategy would spread the plan's deco minutes

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
)

var (
	strategiesParams paramFlags
	strategyName     string
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Compare ascent strategies for a plan",
	Long: `Plan the dive, then redistribute its total deco time across the same stops
with the uniform, linear, s-curve, and exponential strategies.

The redistributed minutes are for comparison only. Dive the computed plan.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStrategies(ctx, cmd, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
	addParamFlags(strategiesCmd, &strategiesParams)
	strategiesCmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Only show this strategy")
}

// runStrategies executes the strategies command and returns exit code
func runStrategies(ctx context.Context, cmd *cobra.Command, w io.Writer) int {
	sys, err := GetUnits()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	params, _, err := strategiesParams.resolve(cmd, sys)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	resp, err := planning.New(IsLocal(), GetAPIURL()).Strategies(ctx, params, strategyName)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", describePlanError(err))
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(resp))
	} else {
		fmt.Fprintln(w, formatStrategiesHuman(resp, sys))
	}
	return 0
}
