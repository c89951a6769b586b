// ABOUTME: Health command for the decoplan CLI
// ABOUTME: Reports backend reachability, planner model, version, and round-trip time

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Ask the decoplan backend for its status, planner model, and version.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runHealth(ctx, os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

type healthReport struct {
	Backend      string `json:"backend"`
	Status       string `json:"status"`
	Model        string `json:"model"`
	Version      string `json:"version"`
	CacheEntries int    `json:"cache_entries"`
	LatencyMS    int64  `json:"latency_ms"`
}

func newHealthReport(url string, resp *models.HealthResponse, latency time.Duration) healthReport {
	return healthReport{
		Backend:      url,
		Status:       resp.Status,
		Model:        resp.Model,
		Version:      resp.Version,
		CacheEntries: resp.CacheEntries,
		LatencyMS:    latency.Milliseconds(),
	}
}

// runHealth returns 2 when the backend cannot be reached.
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()

	start := time.Now()
	resp, err := client.New(url).Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	report := newHealthReport(url, resp, time.Since(start))

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(report))
	} else {
		fmt.Fprintln(w, formatHealthHuman(report))
	}
	return 0
}

func formatHealthHuman(r healthReport) string {
	t := newTable("Backend", r.Backend)
	t.Row("Status", r.Status)
	t.Row("Model", r.Model)
	t.Row("Version", r.Version)
	t.Row("Cached plans", strconv.Itoa(r.CacheEntries))
	t.Row("Round trip", fmt.Sprintf("%d ms", r.LatencyMS))
	return t.String()
}
