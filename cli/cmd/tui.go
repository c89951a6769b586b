// ABOUTME: Interactive command for the decoplan CLI
// ABOUTME: Launches the terminal UI against the configured planning source

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Plan dives interactively",
	Long: `Open the interactive planner. Build a plan with the wizard or open a
plan file, then browse the stops, schedule, tissue loading, and the what-if
ascent strategies.

Sample plans are read from ./samples or DECOPLAN_SAMPLES_PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runTUI(); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI starts the terminal UI and returns exit code
func runTUI() int {
	sys, err := GetUnits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if err := tui.Run(planning.New(IsLocal(), GetAPIURL()), sys); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
