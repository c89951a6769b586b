// ABOUTME: Human and JSON renderers for plan, strategy, and comparison output
// ABOUTME: Depths are shown in the selected unit system; JSON stays metric

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// describeDive renders a one-line summary such as "40m for 20 min on air, GF 30/85".
func describeDive(p models.DiveParameters, sys units.System) string {
	return fmt.Sprintf("%s for %g min on %s, GF %.0f/%.0f",
		sys.Depth(p.Depth), p.BottomTime, p.BottomGas, p.GFLow*100, p.GFHigh*100)
}

// formatPlanHuman renders the stop table and totals, plus the full schedule
// when withSchedule is set.
func formatPlanHuman(name string, p models.DiveParameters, result *models.PlanResult, sys units.System, withSchedule bool) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(name + "\n")
	}
	sb.WriteString(describeDive(p, sys) + "\n\n")

	if len(result.Rows) == 0 {
		sb.WriteString("No decompression stops required\n")
	} else {
		t := newTable("Depth ("+sys.DepthUnit()+")", "Minutes", "Gas")
		for _, row := range result.Rows {
			t.Row(depthValue(float64(row.Depth), sys), strconv.Itoa(row.Minutes), row.Gas)
		}
		sb.WriteString(t.String() + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nTotal runtime:    %d min\n", result.TotalRuntime))
	sb.WriteString(fmt.Sprintf("Total deco time:  %d min\n", result.TotalDecoTime))

	if withSchedule && len(result.Schedule) > 0 {
		t := newTable("Phase", "Depth", "Rate", "Time (min)", "Runtime (min)")
		for _, e := range result.Schedule {
			rate := ""
			if e.Rate > 0 {
				rate = sys.Rate(e.Rate)
			}
			t.Row(string(e.Phase), sys.DepthRange(e), rate, strconv.Itoa(e.Minutes), strconv.Itoa(e.Accumulated))
		}
		sb.WriteString("\n" + t.String() + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatStrategiesHuman renders one column per strategy next to the computed stops.
func formatStrategiesHuman(resp *models.StrategyResponse, sys units.System) string {
	var sb strings.Builder

	if len(resp.Plan.Rows) == 0 {
		return "No decompression stops required, nothing to redistribute"
	}

	headers := []string{"Depth (" + sys.DepthUnit() + ")", "Plan"}
	for _, s := range resp.Strategies {
		headers = append(headers, s.Strategy)
	}
	t := newTable(headers...)
	for i, row := range resp.Plan.Rows {
		cells := []string{depthValue(float64(row.Depth), sys), strconv.Itoa(row.Minutes)}
		for _, s := range resp.Strategies {
			cells = append(cells, strconv.Itoa(s.Stops[i].Minutes))
		}
		t.Row(cells...)
	}

	sb.WriteString(t.String() + "\n")
	sb.WriteString(fmt.Sprintf("\nTotal deco time: %d min in every column\n", resp.Plan.TotalDecoTime))
	sb.WriteString("Redistributed minutes are illustrative, dive the computed plan")
	return sb.String()
}

// formatCompareHuman renders one row per profile.
func formatCompareHuman(names []string, profiles []models.DiveParameters, resp *models.CompareResponse, sys units.System) string {
	t := newTable("Profile", "Depth", "Time", "Gas", "GF", "First stop", "Deco", "Runtime")
	for i, s := range resp.Plans {
		p := profiles[i]
		first := "-"
		if s.FirstStopDepth > 0 {
			first = sys.Depth(float64(s.FirstStopDepth))
		}
		t.Row(
			names[i],
			sys.Depth(p.Depth),
			fmt.Sprintf("%g min", p.BottomTime),
			s.BottomGas,
			fmt.Sprintf("%.0f/%.0f", p.GFLow*100, p.GFHigh*100),
			first,
			fmt.Sprintf("%d min", s.TotalDecoTime),
			fmt.Sprintf("%d min", s.TotalRuntime),
		)
	}
	return t.String()
}

func depthValue(m float64, sys units.System) string {
	return strings.TrimSuffix(sys.Depth(m), sys.DepthUnit())
}

// formatJSON renders v as indented JSON.
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
