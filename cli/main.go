// ABOUTME: Entry point for the decoplan CLI
// ABOUTME: Command-line and terminal UI client for the decompression planner

package main

import (
	"fmt"
	"os"

	"github.com/arthurportas/tech-diving-app/cli/cmd"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/debuglog"
)

func main() {
	defer debuglog.Close()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
