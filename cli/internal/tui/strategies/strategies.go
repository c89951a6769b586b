// ABOUTME: Strategies view comparing redistributed deco minutes per stop
// ABOUTME: What-if display only, the computed plan stays the one to dive

package strategies

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/widgets"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

const shareBarWidth = 12

// Note is shown under every strategy comparison
const Note = "Illustrative only. Redistributed minutes are not a decompression schedule; dive the computed plan."

// Strategies displays a strategy comparison
type Strategies struct {
	resp  *models.StrategyResponse
	sys   units.System
	width int
}

// New creates a strategies view
func New(resp *models.StrategyResponse, sys units.System, width int) *Strategies {
	return &Strategies{resp: resp, sys: sys, width: width}
}

// SetWidth updates the view width
func (s *Strategies) SetWidth(width int) {
	s.width = width
}

// View renders the comparison
func (s *Strategies) View() string {
	if s.resp == nil {
		return "No strategy data"
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Ascent Strategies"))
	sb.WriteString("\n")
	sb.WriteString(styles.StatusWarning.Render(Note))
	sb.WriteString("\n\n")

	if len(s.resp.Plan.Rows) == 0 {
		sb.WriteString(widgets.StatusText("No decompression stops to redistribute", widgets.StatusOK))
		return lipgloss.NewStyle().Width(s.width).Render(sb.String())
	}

	sb.WriteString(s.renderTable())
	sb.WriteString("\n\n")
	sb.WriteString(s.renderShares())

	return lipgloss.NewStyle().Width(s.width).Render(sb.String())
}

func (s *Strategies) renderTable() string {
	headers := []string{"Depth", "Plan"}
	for _, p := range s.resp.Strategies {
		headers = append(headers, p.Strategy)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers(headers...)

	for i, row := range s.resp.Plan.Rows {
		cells := []string{s.sys.Depth(float64(row.Depth)), strconv.Itoa(row.Minutes)}
		for _, p := range s.resp.Strategies {
			cells = append(cells, stopCell(p, i))
		}
		t.Row(cells...)
	}

	return t.String()
}

func stopCell(p models.StrategyPlan, i int) string {
	if i >= len(p.Stops) {
		return "-"
	}
	stop := p.Stops[i]
	delta := stop.Minutes - stop.OriginalMinutes
	if delta == 0 {
		return strconv.Itoa(stop.Minutes)
	}
	return fmt.Sprintf("%d %s", stop.Minutes, widgets.DeltaBadge(float64(delta), "", false))
}

// renderShares shows how much of the deco time each strategy spends on the
// deepest stop, the main difference between them
func (s *Strategies) renderShares() string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("Share of deco at first stop"))
	sb.WriteString("\n")

	for _, p := range s.resp.Strategies {
		percent := 0.0
		if p.TotalDecoTime > 0 && len(p.Stops) > 0 {
			percent = float64(p.Stops[0].Minutes) / float64(p.TotalDecoTime) * 100
		}
		sb.WriteString(fmt.Sprintf("%-12s %s %3.0f%%\n", p.Strategy,
			widgets.CompactProgressBar(percent, shareBarWidth, styles.Secondary), percent))
	}

	return strings.TrimRight(sb.String(), "\n")
}
