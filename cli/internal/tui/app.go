// ABOUTME: Root bubbletea model for the planner TUI
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/debuglog"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/filepicker"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/icons"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/menu"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/recentfiles"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/results"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/samples"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/strategies"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/styles"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/wizard"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenFilePicker
	ScreenWizard
	ScreenLoading
	ScreenResults
	ScreenStrategies
)

// Layout constants
const (
	minTerminalWidth = 80  // Minimum frame width
	wideLayoutWidth  = 140 // Show the actions pane from this width
	actionsPaneWidth = 26
	panelPadding     = 4 // Total horizontal padding from panel borders (2 each side)
)

// planTimeout bounds a single plan or strategy request
const planTimeout = 30 * time.Second

// planComputedMsg is sent when a plan has been computed
type planComputedMsg struct {
	params models.DiveParameters
	result *models.PlanResult
	err    error
}

// strategiesComputedMsg is sent when the strategy comparison completes
type strategiesComputedMsg struct {
	resp *models.StrategyResponse
	err  error
}

// App is the root model for the TUI
type App struct {
	source       planning.Source
	sys          units.System
	screen       Screen
	width        int
	height       int
	err          error
	repoBasePath string
	lastPlanned  time.Time
	planName     string
	params       *models.DiveParameters // last parameters sent to the planner, metric

	// Child models
	menu         *menu.Menu
	filePicker   *filepicker.FilePicker
	wizardScreen *wizard.Wizard
	results      *results.Results
	strategyView *strategies.Strategies
	spinner      spinner.Model
	loadingText  string

	// Recent files manager
	recentFiles *recentfiles.RecentFiles
}

// New creates a new TUI application
func New(src planning.Source, sys units.System, repoBasePath string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &App{
		source:       src,
		sys:          sys,
		screen:       ScreenMenu,
		repoBasePath: repoBasePath,
		recentFiles:  recentfiles.New(recentfiles.DefaultConfigDir()),
		menu:         menu.New(false),
		spinner:      sp,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.menu.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.results != nil {
			a.results.SetSize(a.resultsWidth(), a.contentHeight())
		}
		if a.strategyView != nil {
			a.strategyView.SetWidth(a.resultsWidth())
		}
		// Forward to child models
		if a.menu != nil {
			a.menu.Update(msg)
		}
		if a.filePicker != nil {
			a.filePicker.Update(msg)
		}
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.width - panelPadding)
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenFilePicker:
			return a.updateFilePicker(msg)
		case ScreenWizard:
			return a.updateWizard(msg)
		case ScreenResults:
			return a.updateResults(msg)
		case ScreenStrategies:
			return a.updateStrategies(msg)
		}
		return a, nil

	case spinner.TickMsg:
		if a.screen != ScreenLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case menu.ChoiceSelectedMsg:
		return a.handleMenuChoice(msg)

	case menu.CancelledMsg:
		return a, tea.Quit

	case filepicker.FileSelectedMsg:
		return a.handleFileSelected(msg)

	case filepicker.RecentRemovedMsg:
		if err := a.recentFiles.Remove(msg.Path); err != nil {
			debuglog.Warn("could not update recent files: %v", err)
		}
		return a, nil

	case filepicker.CancelledMsg:
		a.filePicker = nil
		return a, a.showMenu()

	case wizard.WizardCompleteMsg:
		a.wizardScreen = nil
		return a, a.computePlan(msg.Params)

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		if a.results != nil {
			a.screen = ScreenResults
			return a, nil
		}
		return a, a.showMenu()

	case planComputedMsg:
		a.screen = ScreenResults
		if msg.err != nil {
			debuglog.Error("plan", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.lastPlanned = time.Now()
		a.results = results.New(a.planName, msg.params, msg.result, a.sys, a.resultsWidth(), a.contentHeight())
		return a, nil

	case strategiesComputedMsg:
		a.screen = ScreenStrategies
		if msg.err != nil {
			debuglog.Error("strategies", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.strategyView = strategies.New(msg.resp, a.sys, a.resultsWidth())
		return a, nil

	default:
		// Forward unknown messages to the active huh form
		switch {
		case a.screen == ScreenWizard && a.wizardScreen != nil:
			return a.updateWizard(msg)
		case a.screen == ScreenMenu && a.menu != nil:
			model, cmd := a.menu.Update(msg)
			a.menu = model.(*menu.Menu)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.menu == nil {
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateFilePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filePicker == nil {
		return a, nil
	}
	model, cmd := a.filePicker.Update(msg)
	a.filePicker = model.(*filepicker.FilePicker)
	return a, cmd
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "e":
		return a, a.runWizard()
	case "s", "t":
		if a.params != nil && a.err == nil {
			return a, a.computeStrategies(*a.params)
		}
	case "r":
		if a.params != nil {
			return a, a.computePlan(*a.params)
		}
	case "left", "h":
		if a.results != nil {
			a.results.PrevSnapshot()
		}
	case "right", "l":
		if a.results != nil {
			a.results.NextSnapshot()
		}
	case "d":
		if a.results != nil {
			a.results.ToggleSchedule()
		}
	case "b":
		a.err = nil
		return a, a.showMenu()
	}
	return a, nil
}

func (a *App) updateStrategies(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.screen = ScreenResults
		a.strategyView = nil
		a.err = nil
		return a, nil
	case "e":
		return a, a.runWizard()
	}
	return a, nil
}

func (a *App) handleMenuChoice(msg menu.ChoiceSelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Choice {
	case menu.ChoiceNewPlan:
		return a, a.runWizard()

	case menu.ChoiceOpenFile:
		// Initialize file picker with recent files and samples
		recentList, err := a.recentFiles.Load()
		if err != nil {
			debuglog.Warn("recent files unavailable: %v", err)
		}
		samplesDir := samples.FindSamplesDir(a.repoBasePath)
		sampleFiles, _ := samples.Discover(samplesDir)
		a.filePicker = filepicker.New(recentList, sampleFiles)
		a.screen = ScreenFilePicker
		return a, a.filePicker.Init()

	case menu.ChoiceQuit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleFileSelected(msg filepicker.FileSelectedMsg) (tea.Model, tea.Cmd) {
	params, err := msg.Plan.Metric()
	if err != nil {
		if a.filePicker != nil {
			a.filePicker.SetError("Invalid plan: " + err.Error())
		}
		return a, nil
	}

	if err := a.recentFiles.Add(msg.Path); err != nil {
		debuglog.Warn("could not record recent file: %v", err)
	}

	a.planName = msg.Plan.Name
	a.filePicker = nil
	return a, a.computePlan(params)
}

// showMenu returns to the start menu, offering to edit the current plan
func (a *App) showMenu() tea.Cmd {
	a.menu = menu.New(a.params != nil)
	a.screen = ScreenMenu
	return a.menu.Init()
}

// runWizard transitions to the wizard screen, prefilled with the current plan
func (a *App) runWizard() tea.Cmd {
	a.err = nil
	a.wizardScreen = wizard.New(a.params, a.sys)
	a.wizardScreen.SetWidth(a.width - panelPadding)
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// computePlan switches to the loading screen and plans params
func (a *App) computePlan(params models.DiveParameters) tea.Cmd {
	a.params = &params
	a.screen = ScreenLoading
	a.loadingText = "Computing decompression plan..."

	src := a.source
	plan := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()
		result, err := src.Plan(ctx, params, true)
		return planComputedMsg{params: params, result: result, err: err}
	}
	return tea.Batch(a.spinner.Tick, plan)
}

// computeStrategies switches to the loading screen and compares every strategy
func (a *App) computeStrategies(params models.DiveParameters) tea.Cmd {
	a.screen = ScreenLoading
	a.loadingText = "Redistributing deco minutes..."

	src := a.source
	compare := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()
		resp, err := src.Strategies(ctx, params, "")
		return strategiesComputedMsg{resp: resp, err: err}
	}
	return tea.Batch(a.spinner.Tick, compare)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenFilePicker:
		content = a.viewFilePicker()
	case ScreenWizard:
		content = a.viewWizard()
	case ScreenLoading:
		content = a.viewLoading()
	case ScreenResults:
		content = a.viewResults()
	case ScreenStrategies:
		content = a.viewStrategies()
	default:
		content = a.viewMenu()
	}

	return a.wrapWithFrame(content)
}

// viewMenu renders the menu screen
func (a *App) viewMenu() string {
	if a.menu != nil {
		return a.menu.View()
	}
	return ""
}

// viewFilePicker renders the file picker screen
func (a *App) viewFilePicker() string {
	if a.filePicker != nil {
		return a.filePicker.View()
	}
	return ""
}

// viewWizard renders the wizard screen
func (a *App) viewWizard() string {
	if a.wizardScreen != nil {
		return a.wizardScreen.View()
	}
	return ""
}

func (a *App) viewLoading() string {
	return styles.Panel.Width(a.resultsWidth()).Render(a.spinner.View() + " " + a.loadingText)
}

// viewResults renders the plan with the actions pane
func (a *App) viewResults() string {
	var leftPane string
	switch {
	case a.err != nil:
		leftPane = styles.Panel.Width(a.resultsWidth()).Render(a.renderError())
	case a.results != nil:
		leftPane = styles.ActivePanel.Width(a.resultsWidth()).Render(a.results.View())
	default:
		leftPane = styles.Panel.Width(a.resultsWidth()).Render("No plan computed")
	}

	if !a.showActions() {
		return leftPane
	}

	// Actions pane on the right - shows available actions
	rightContent := styles.Title.Render(icons.Settings.String()+" Actions") + "\n\n"
	rightContent += icons.Edit.String() + " Edit plan\n"
	rightContent += icons.Strategy.String() + " Compare strategies\n"
	rightContent += icons.Tissue.String() + " Step tissues\n"
	rightContent += icons.Profile.String() + " Toggle schedule\n"
	rightContent += icons.Back.String() + " Back to menu\n"
	rightContent += icons.Quit.String() + " Quit application\n"
	rightPane := styles.Panel.Width(actionsPaneWidth).Render(rightContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// viewStrategies renders the strategy comparison
func (a *App) viewStrategies() string {
	if a.err != nil {
		return styles.Panel.Width(a.resultsWidth()).Render(a.renderError())
	}
	if a.strategyView == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.resultsWidth()).Render(a.strategyView.View())
}

func (a *App) renderError() string {
	return styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n\n" +
		styles.Help.Render("Press e to edit the plan or b to go back")
}

func (a *App) showActions() bool {
	return a.width >= wideLayoutWidth
}

// resultsWidth calculates the width for the main content pane
func (a *App) resultsWidth() int {
	width := max(a.width, minTerminalWidth) - panelPadding
	if a.showActions() {
		width -= actionsPaneWidth + panelPadding
	}
	return width
}

// contentHeight calculates the height available for pane content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	return a.height - 8
}

// frameWidth is one less than the terminal so the frame never wraps
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Decompression Planner"))

	// Plan name only once a plan is on screen
	rightText := ""
	if a.planName != "" && (a.screen == ScreenResults || a.screen == ScreenStrategies) {
		rightText = " " + contextStyle.Render(a.planName) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := max(0, width-4-leftWidth-rightWidth) // -4 for ╭─ and ─╮

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Build keyboard shortcuts based on current screen
	var shortcuts []string
	switch a.screen {
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "Esc Quit"}
	case ScreenFilePicker:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	case ScreenWizard:
		shortcuts = []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case ScreenLoading:
		shortcuts = []string{"Ctrl+C Quit"}
	case ScreenResults:
		shortcuts = []string{"e Edit", "s Strategies", "←→ Tissues", "d Schedule", "b Back", "q Quit"}
	case ScreenStrategies:
		shortcuts = []string{"e Edit", "b Back", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	// Right side status (time since the last plan)
	rightText := ""
	if !a.lastPlanned.IsZero() && (a.screen == ScreenResults || a.screen == ScreenStrategies) {
		rightText = " " + statusStyle.Render("Planned "+formatTimeSince(a.lastPlanned)) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := max(0, width-4-leftWidth-rightWidth) // -4 for ╰─ and ─╯

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(src planning.Source, sys units.System) error {
	app := New(src, sys, findRepoBasePath())

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// findRepoBasePath returns the working directory when it holds sample plans
func findRepoBasePath() string {
	if cwd, err := os.Getwd(); err == nil {
		if _, err := os.Stat(filepath.Join(cwd, "samples")); err == nil {
			return cwd
		}
	}

	// Fall back to empty (will rely on DECOPLAN_SAMPLES_PATH)
	return ""
}
