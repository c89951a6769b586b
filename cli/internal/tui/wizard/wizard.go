// ABOUTME: Dive plan wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/icons"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// WizardCompleteMsg is sent when the wizard finishes with valid parameters.
// Params are always in metres.
type WizardCompleteMsg struct {
	Params models.DiveParameters
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

const (
	stepProfile = iota + 1
	stepGas
	stepAscent
)

// Wizard manages the dive planning wizard flow as a bubbletea model
type Wizard struct {
	sys    units.System
	params models.DiveParameters // display units while editing
	form   *huh.Form
	step   int
	width  int
	err    string

	// Form field values (strings for huh)
	depth       string
	bottomTime  string
	descentRate string

	bottomGas  string
	customType string
	customO2   string
	customHe   string
	decoGas    string
	decoO2     string

	gfPair           string // "low/high" in percent
	ascentMode       string
	ascentRate       string
	deepRate         string
	shallowRate      string
	shallowThreshold string
	lastStop         string
}

// Step names for progress indicator
var stepNames = []string{"Profile", "Gas", "Conservatism & Ascent"}

// createTheme returns a custom huh theme matching the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := lipgloss.Color("#06B6D4")      // Cyan-500 - primary
	cyanLight := lipgloss.Color("#22D3EE") // Cyan-400 - accents
	blue := lipgloss.Color("#3B82F6")      // Blue-500 - info
	gray := lipgloss.Color("#9CA3AF")      // Gray-400 - muted
	grayLight := lipgloss.Color("#E5E7EB") // Gray-200 - text
	red := lipgloss.Color("#F87171")       // Red-400 - errors
	slate := lipgloss.Color("#334155")     // Slate-700 - borders

	// Group styles (section headers)
	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	// Focused field styles
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(cyanLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	// Select field styles
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(cyan).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true)
	t.Focused.NextIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginLeft(1).
		SetString("→")
	t.Focused.PrevIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginRight(1).
		SetString("←")

	// Text input styles
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	// Button styles
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	// Blurred field styles (inherit from focused with muted colors)
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates a wizard prefilled from initial, which is in metres. A nil
// initial starts from the planner defaults.
func New(initial *models.DiveParameters, sys units.System) *Wizard {
	params := models.DefaultDiveParameters()
	if initial != nil {
		params = *initial
	}
	params = sys.ParamsFromMetres(params)

	w := &Wizard{
		sys:    sys,
		params: params,
		step:   stepProfile,

		depth:       formatNumber(params.Depth),
		bottomTime:  formatNumber(params.BottomTime),
		descentRate: formatNumber(params.DescentRate),

		bottomGas:  params.BottomGas,
		customType: params.CustomGas.Type,
		customO2:   formatNumber(params.CustomGas.O2Percent),
		customHe:   formatNumber(params.CustomGas.HePercent),
		decoGas:    params.DecoGas,
		decoO2:     formatNumber(params.DecoO2Percent),

		gfPair:           formatNumber(math.Round(params.GFLow*100)) + "/" + formatNumber(math.Round(params.GFHigh*100)),
		ascentMode:       params.Ascent.Mode,
		ascentRate:       formatNumber(params.Ascent.Rate),
		deepRate:         formatNumber(params.Ascent.DeepRate),
		shallowRate:      formatNumber(params.Ascent.ShallowRate),
		shallowThreshold: formatNumber(params.Ascent.ShallowThreshold),
		lastStop:         strconv.Itoa(params.LastStopDepth),
	}
	if params.Depth == 0 {
		w.depth = ""
	}
	if params.BottomTime == 0 {
		w.bottomTime = ""
	}

	w.form = w.createStepForm(w.step)
	return w
}

func (w *Wizard) createStepForm(step int) *huh.Form {
	switch step {
	case stepGas:
		return w.createGasForm()
	case stepAscent:
		return w.createAscentForm()
	default:
		return w.createProfileForm()
	}
}

func (w *Wizard) createProfileForm() *huh.Form {
	du, ru := w.sys.DepthUnit(), w.sys.RateUnit()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Bottom depth (%s)", du)).
				Description("Deepest point of the dive").
				Placeholder("e.g., 40").
				CharLimit(6).
				Value(&w.depth).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("Bottom time (min)").
				Description("Minutes at depth after the descent").
				Placeholder("e.g., 20").
				CharLimit(6).
				Value(&w.bottomTime).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title(fmt.Sprintf("Descent rate (%s)", ru)).
				CharLimit(6).
				Value(&w.descentRate).
				Validate(validatePositiveFloat),
		).Title("Step 1: Profile").
			Description("Depth and time of the planned dive"),
	).WithTheme(createTheme())
}

func (w *Wizard) createGasForm() *huh.Form {
	catalog := services.GasCatalog()

	bottomOptions := make([]huh.Option[string], 0, len(catalog.BottomGases)+1)
	for _, g := range catalog.BottomGases {
		bottomOptions = append(bottomOptions, huh.NewOption(g.Label, g.Selector))
	}
	bottomOptions = append(bottomOptions, huh.NewOption("Custom mix", models.BottomGasCustom))

	decoOptions := make([]huh.Option[string], 0, len(catalog.DecoPolicies))
	for _, p := range catalog.DecoPolicies {
		decoOptions = append(decoOptions, huh.NewOption(p.Description, p.Policy))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bottom gas").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(bottomOptions...).
				Value(&w.bottomGas),
			huh.NewSelect[string]().
				Title("Deco gas").
				Description("Gas breathed at the stops").
				Options(decoOptions...).
				Value(&w.decoGas),
		).Title("Step 2: Gas").
			Description("Bottom mix and decompression gas policy"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Custom mix type").
				Options(
					huh.NewOption("Nitrox", models.CustomGasNitrox),
					huh.NewOption("Trimix", models.CustomGasTrimix),
				).
				Value(&w.customType),
			huh.NewInput().
				Title("Oxygen (%)").
				CharLimit(5).
				Value(&w.customO2).
				Validate(validatePercentage),
			huh.NewInput().
				Title("Helium (%)").
				Description("Ignored for nitrox").
				CharLimit(5).
				Value(&w.customHe).
				Validate(validatePercentage),
		).Title("Step 2: Custom mix").
			WithHideFunc(func() bool { return w.bottomGas != models.BottomGasCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Deco nitrox oxygen (%)").
				Description("e.g., 50 for EAN 50").
				CharLimit(5).
				Value(&w.decoO2).
				Validate(validatePercentage),
		).Title("Step 2: Deco nitrox").
			WithHideFunc(func() bool {
				return w.decoGas != models.DecoGasNitrox && w.decoGas != models.DecoGasNitroxOxygen
			}),
	).WithTheme(createTheme())
}

func (w *Wizard) createAscentForm() *huh.Form {
	du, ru := w.sys.DepthUnit(), w.sys.RateUnit()

	gfOptions := []huh.Option[string]{
		huh.NewOption("30/70", "30/70"),
		huh.NewOption("30/85 (default)", "30/85"),
		huh.NewOption("40/85", "40/85"),
		huh.NewOption("50/80", "50/80"),
	}
	if !hasOption(gfOptions, w.gfPair) {
		gfOptions = append(gfOptions, huh.NewOption(w.gfPair+" (current)", w.gfPair))
	}

	lastStopOptions := []huh.Option[string]{
		huh.NewOption(w.sys.Depth(3), w.displayStop(3)),
		huh.NewOption(w.sys.Depth(6)+" (default)", w.displayStop(6)),
		huh.NewOption("Surface directly", "0"),
	}
	if !hasOption(lastStopOptions, w.lastStop) {
		lastStopOptions = append(lastStopOptions, huh.NewOption(w.lastStop+du+" (current)", w.lastStop))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Gradient factors (low/high)").
				Description("Lower values add conservatism").
				Options(gfOptions...).
				Value(&w.gfPair),
			huh.NewSelect[string]().
				Title("Last stop").
				Options(lastStopOptions...).
				Value(&w.lastStop),
			huh.NewSelect[string]().
				Title("Ascent rate").
				Options(
					huh.NewOption("Flat, one rate for the whole ascent", models.AscentFlat),
					huh.NewOption("Banded, slower in the shallows", models.AscentBanded),
				).
				Value(&w.ascentMode),
		).Title("Step 3: Conservatism & Ascent").
			Description("Gradient factors and ascent profile"),
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Ascent rate (%s)", ru)).
				CharLimit(6).
				Value(&w.ascentRate).
				Validate(validatePositiveFloat),
		).Title("Step 3: Flat ascent").
			WithHideFunc(func() bool { return w.ascentMode != models.AscentFlat }),
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Deep ascent rate (%s)", ru)).
				CharLimit(6).
				Value(&w.deepRate).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title(fmt.Sprintf("Shallow ascent rate (%s)", ru)).
				CharLimit(6).
				Value(&w.shallowRate).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title(fmt.Sprintf("Shallow band starts at (%s)", du)).
				CharLimit(6).
				Value(&w.shallowThreshold).
				Validate(validatePositiveFloat),
		).Title("Step 3: Banded ascent").
			WithHideFunc(func() bool { return w.ascentMode != models.AscentBanded }),
	).WithTheme(createTheme())
}

// displayStop converts a metric stop depth into the option value for the
// current unit system
func (w *Wizard) displayStop(m int) string {
	return strconv.Itoa(w.sys.ParamsFromMetres(models.DiveParameters{LastStopDepth: m}).LastStopDepth)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		return w.advanceStep()
	case huh.StateAborted:
		return w, func() tea.Msg { return WizardCancelledMsg{} }
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	w.err = ""

	switch w.step {
	case stepProfile:
		w.params.Depth = parseFloat(w.depth)
		w.params.BottomTime = parseFloat(w.bottomTime)
		w.params.DescentRate = parseFloat(w.descentRate)
		return w.gotoStep(stepGas)

	case stepGas:
		w.params.BottomGas = w.bottomGas
		w.params.CustomGas = models.CustomGas{
			Type:      w.customType,
			O2Percent: parseFloat(w.customO2),
			HePercent: parseFloat(w.customHe),
		}
		if w.customType == models.CustomGasNitrox {
			w.params.CustomGas.HePercent = 0
		}
		w.params.DecoGas = w.decoGas
		w.params.DecoO2Percent = parseFloat(w.decoO2)
		return w.gotoStep(stepAscent)

	case stepAscent:
		low, high, _ := strings.Cut(w.gfPair, "/")
		w.params.GFLow = parseFloat(low) / 100
		w.params.GFHigh = parseFloat(high) / 100
		w.params.LastStopDepth, _ = strconv.Atoi(w.lastStop)
		w.params.Ascent = models.AscentPolicy{
			Mode:             w.ascentMode,
			Rate:             parseFloat(w.ascentRate),
			DeepRate:         parseFloat(w.deepRate),
			ShallowRate:      parseFloat(w.shallowRate),
			ShallowThreshold: parseFloat(w.shallowThreshold),
		}

		params := w.sys.ParamsToMetres(w.params)
		if err := services.ValidateDiveParameters(params); err != nil {
			w.err = err.Error()
			_, cmd := w.gotoStep(stepFor(err))
			return w, cmd
		}

		return w, func() tea.Msg {
			return WizardCompleteMsg{Params: params}
		}
	}

	return w, nil
}

func (w *Wizard) gotoStep(step int) (tea.Model, tea.Cmd) {
	w.step = step
	w.form = w.createStepForm(step)
	cmd := w.form.Init()
	if w.width > 0 {
		w.form.Update(tea.WindowSizeMsg{Width: w.width})
	}
	return w, cmd
}

// stepFor returns the wizard step that owns the first invalid field in err
func stepFor(err error) int {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return stepProfile
	}
	switch {
	case verr.Field == "depth", verr.Field == "bottom_time", verr.Field == "descent_rate":
		return stepProfile
	case strings.HasPrefix(verr.Field, "gf_"), strings.HasPrefix(verr.Field, "ascent"), verr.Field == "last_stop_depth":
		return stepAscent
	default:
		return stepGas
	}
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Step returns the current step number, starting at 1
func (w *Wizard) Step() int {
	return w.step
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	if w.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(styles.Danger)
		sb.WriteString(errStyle.Render(icons.Critical.String() + " " + w.err))
		sb.WriteString("\n\n")
	}

	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	// w.width is already a.width - 1, so this keeps the box inside the frame
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		if stepNum < w.step {
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		} else if stepNum == w.step {
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		} else {
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	totalSteps := len(stepNames)
	filledWidth := (w.step * barWidth) / totalSteps
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))
	progressBar := filledBar + emptyBar

	styledTitle := titleStyle.Render("Progress")
	titleWidth := lipgloss.Width("Progress")

	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsLineWidth := lipgloss.Width(stepsLine)
	stepsPadding := max(0, width-4-stepsLineWidth)
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Params returns the collected parameters converted to metres
func (w *Wizard) Params() models.DiveParameters {
	return w.sys.ParamsToMetres(w.params)
}

func hasOption(options []huh.Option[string], value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validatePercentage(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}
