// ABOUTME: Results view for a computed decompression plan
// ABOUTME: Shows summary blocks, stop or schedule table, and tissue saturation

package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/icons"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/widgets"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

const (
	tissueBarWidth = 16
	blockWidth     = 22
)

// Results displays one plan
type Results struct {
	name         string
	params       models.DiveParameters
	result       *models.PlanResult
	sys          units.System
	snapshot     int
	showSchedule bool
	width        int
	height       int
}

// New creates a results view. The tissue panel starts at the last snapshot,
// which is the diver back at the surface.
func New(name string, params models.DiveParameters, result *models.PlanResult, sys units.System, width, height int) *Results {
	r := &Results{
		name:   name,
		params: params,
		result: result,
		sys:    sys,
		width:  width,
		height: height,
	}
	if result != nil && len(result.TissueSnapshots) > 0 {
		r.snapshot = len(result.TissueSnapshots) - 1
	}
	return r
}

// SetSize updates the view dimensions
func (r *Results) SetSize(width, height int) {
	r.width = width
	r.height = height
}

// Params returns the parameters the plan was computed for
func (r *Results) Params() models.DiveParameters {
	return r.params
}

// Name returns the plan name, possibly empty
func (r *Results) Name() string {
	return r.name
}

// NextSnapshot moves the tissue panel one snapshot later in the dive
func (r *Results) NextSnapshot() {
	if r.result != nil && r.snapshot < len(r.result.TissueSnapshots)-1 {
		r.snapshot++
	}
}

// PrevSnapshot moves the tissue panel one snapshot earlier in the dive
func (r *Results) PrevSnapshot() {
	if r.snapshot > 0 {
		r.snapshot--
	}
}

// ToggleSchedule switches the table between stops and the full schedule
func (r *Results) ToggleSchedule() {
	r.showSchedule = !r.showSchedule
}

// View renders the results
func (r *Results) View() string {
	if r.result == nil {
		return styles.Panel.Width(r.width).Render("No plan computed")
	}

	var sb strings.Builder

	title := styles.Title.Render("Decompression Plan")
	if r.name != "" {
		title += "  " + styles.Subtitle.Render(r.name)
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(r.describe())
	sb.WriteString("  ")
	sb.WriteString(widgets.DecoBadge(len(r.result.Rows)))
	sb.WriteString(" ")
	sb.WriteString(widgets.ConservatismBadge(r.params.GFHigh))
	sb.WriteString("\n\n")

	sb.WriteString(r.renderBlocks())
	sb.WriteString("\n\n")

	left := r.renderTable()
	right := r.renderTissues()
	if r.width >= 100 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	} else {
		sb.WriteString(left)
		sb.WriteString("\n\n")
		sb.WriteString(right)
	}

	if charts := r.renderCharts(); charts != "" {
		sb.WriteString("\n\n")
		sb.WriteString(charts)
	}

	return lipgloss.NewStyle().Width(r.width).Render(sb.String())
}

func (r *Results) describe() string {
	return fmt.Sprintf("%s for %g min on %s, GF %.0f/%.0f",
		r.sys.Depth(r.params.Depth), r.params.BottomTime, r.result.BottomGas,
		r.params.GFLow*100, r.params.GFHigh*100)
}

func (r *Results) renderBlocks() string {
	config := widgets.DefaultMetricBlockConfig()
	config.Width = blockWidth

	firstStop := "no stops"
	if r.result.FirstStopDepth > 0 {
		firstStop = "first at " + r.sys.Depth(float64(r.result.FirstStopDepth))
	}

	blocks := []string{
		widgets.MetricBlock(icons.Clock, "Runtime",
			fmt.Sprintf("%d min", r.result.TotalRuntime),
			fmt.Sprintf("%d min deco", r.result.TotalDecoTime), config),
		widgets.CountBlock(icons.Stop, "Stops", len(r.result.Rows), firstStop, config),
	}
	if r.width >= 100 {
		blocks = append(blocks, widgets.MetricBlock(icons.Gas, "Gas", r.result.BottomGas, r.gasSwitches(), config))
	}

	if snap := r.currentSnapshot(); snap != nil {
		lead := snap.Compartments[snap.Leading-1]
		blocks = append(blocks, widgets.MetricBlockWithBar(icons.Tissue, "Leading",
			lead.Saturation, fmt.Sprintf("TC %d at %s", snap.Leading, snap.Label), config))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(blocks)...)
}

// gasSwitches names the first gas breathed at a stop that differs from the
// bottom gas
func (r *Results) gasSwitches() string {
	for _, row := range r.result.Rows {
		if row.Gas != r.result.BottomGas {
			return "switch to " + row.Gas + " @ " + r.sys.Depth(float64(row.Depth))
		}
	}
	return "no switches"
}

func (r *Results) renderTable() string {
	if r.showSchedule {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
			Headers("Phase", "Depth", "Rate", "Time", "Runtime")
		for _, e := range r.result.Schedule {
			rate := ""
			if e.Rate > 0 {
				rate = r.sys.Rate(e.Rate)
			}
			t.Row(string(e.Phase), r.sys.DepthRange(e), rate, strconv.Itoa(e.Minutes), strconv.Itoa(e.Accumulated))
		}
		return styles.Subtitle.Render("Schedule") + "\n" + t.String()
	}

	if len(r.result.Rows) == 0 {
		return styles.Subtitle.Render("Stops") + "\n" +
			widgets.StatusText("No decompression stops required", widgets.StatusOK)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers("Depth", "Minutes", "Gas")
	for _, row := range r.result.Rows {
		t.Row(r.sys.Depth(float64(row.Depth)), strconv.Itoa(row.Minutes), row.Gas)
	}
	return styles.Subtitle.Render("Stops") + "\n" + t.String()
}

func (r *Results) renderTissues() string {
	snap := r.currentSnapshot()
	if snap == nil {
		return ""
	}

	var sb strings.Builder
	heading := fmt.Sprintf("Tissues: %s (%d min)", snap.Label, snap.Time)
	sb.WriteString(styles.Subtitle.Render(heading))
	sb.WriteString(fmt.Sprintf("  %d/%d\n", r.snapshot+1, len(r.result.TissueSnapshots)))

	for _, c := range snap.Compartments {
		if c.Compartment == snap.Leading {
			sb.WriteString("Leading " + widgets.SaturationGauge(c.Saturation, tissueBarWidth) + "\n\n")
		}
	}

	leadStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	for _, c := range snap.Compartments {
		label := fmt.Sprintf("TC%-2d", c.Compartment)
		if c.Compartment == snap.Leading {
			label = leadStyle.Render(label)
		}
		sb.WriteString(fmt.Sprintf("%s %s %3.0f%%\n", label, styles.SaturationBar(c.Saturation, tissueBarWidth), c.Saturation))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderCharts draws the depth profile and the highest compartment
// saturation over the whole dive, on a shared time axis
func (r *Results) renderCharts() string {
	timeline := r.result.TissueTimeline
	if len(timeline) == 0 {
		return ""
	}

	depths := make([]float64, len(timeline))
	saturation := make([]float64, len(timeline))
	for i, s := range timeline {
		depths[i] = s.Depth
		for _, c := range s.Compartments {
			saturation[i] = max(saturation[i], c.Saturation)
		}
	}

	width := max(20, min(len(timeline), r.width-24))
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted).Width(20)

	profile := widgets.DepthProfile(depths, width, styles.Info)
	spark := widgets.SaturationSparkline(saturation, width)

	return labelStyle.Render("Profile") + profile + "\n" +
		labelStyle.Render("Leading saturation") + spark
}

func (r *Results) currentSnapshot() *models.TissueSnapshot {
	if r.result == nil || len(r.result.TissueSnapshots) == 0 {
		return nil
	}
	snap := &r.result.TissueSnapshots[r.snapshot]
	if snap.Leading < 1 || snap.Leading > len(snap.Compartments) {
		return nil
	}
	return snap
}

func joinWithGap(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}
