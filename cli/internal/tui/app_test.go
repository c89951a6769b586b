// ABOUTME: Integration tests for TUI app
// ABOUTME: Tests component wiring and state transitions

package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
	"github.com/arthurportas/tech-diving-app/cli/internal/planning"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/filepicker"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/menu"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/wizard"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// stubSource records requests and returns canned responses
type stubSource struct {
	result  *models.PlanResult
	resp    *models.StrategyResponse
	err     error
	planned []models.DiveParameters
}

func (s *stubSource) Plan(ctx context.Context, params models.DiveParameters, withTimeline bool) (*models.PlanResult, error) {
	s.planned = append(s.planned, params)
	return s.result, s.err
}

func (s *stubSource) Strategies(ctx context.Context, params models.DiveParameters, strategy string) (*models.StrategyResponse, error) {
	return s.resp, s.err
}

func (s *stubSource) Compare(ctx context.Context, profiles []models.DiveParameters) (*models.CompareResponse, error) {
	return &models.CompareResponse{}, s.err
}

var _ planning.Source = (*stubSource)(nil)

func stubResult() *models.PlanResult {
	return &models.PlanResult{
		Rows:           []models.ScheduleRow{{Depth: 6, Minutes: 3, Gas: "Air"}, {Depth: 3, Minutes: 8, Gas: "Air"}},
		TotalRuntime:   35,
		TotalDecoTime:  11,
		FirstStopDepth: 6,
		BottomGas:      "Air",
	}
}

func reefParams() models.DiveParameters {
	p := models.DefaultDiveParameters()
	p.Depth = 40
	p.BottomTime = 20
	p.DecoGas = models.DecoGasNone
	p.LastStopDepth = 3
	return p
}

func newTestApp(t *testing.T, src planning.Source) *App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	app := New(src, units.Metric, "")
	app.width = 120
	app.height = 40
	return app
}

// collect runs cmd and any batched commands, returning every message
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppInitialState(t *testing.T) {
	app := newTestApp(t, &stubSource{})

	if app.screen != ScreenMenu {
		t.Errorf("expected initial screen to be ScreenMenu, got %d", app.screen)
	}
	if app.menu == nil {
		t.Error("expected menu to be initialized")
	}
	if app.params != nil {
		t.Error("expected no plan parameters yet")
	}
}

func TestScreenConstants(t *testing.T) {
	if ScreenMenu != 0 {
		t.Errorf("expected ScreenMenu to be 0, got %d", ScreenMenu)
	}
	if ScreenFilePicker != 1 {
		t.Errorf("expected ScreenFilePicker to be 1, got %d", ScreenFilePicker)
	}
	if ScreenResults != 4 {
		t.Errorf("expected ScreenResults to be 4, got %d", ScreenResults)
	}
	if ScreenStrategies != 5 {
		t.Errorf("expected ScreenStrategies to be 5, got %d", ScreenStrategies)
	}
}

func TestMenuNewPlanOpensWizard(t *testing.T) {
	app := newTestApp(t, &stubSource{})

	model, _ := app.Update(menu.ChoiceSelectedMsg{Choice: menu.ChoiceNewPlan})
	app = model.(*App)

	if app.screen != ScreenWizard {
		t.Errorf("expected ScreenWizard, got %d", app.screen)
	}
	if app.wizardScreen == nil {
		t.Fatal("expected wizard to be created")
	}
}

func TestMenuOpenFileShowsPicker(t *testing.T) {
	app := newTestApp(t, &stubSource{})

	model, _ := app.Update(menu.ChoiceSelectedMsg{Choice: menu.ChoiceOpenFile})
	app = model.(*App)

	if app.screen != ScreenFilePicker {
		t.Errorf("expected ScreenFilePicker, got %d", app.screen)
	}
	if app.filePicker == nil {
		t.Error("expected file picker to be created")
	}
}

func TestMenuQuit(t *testing.T) {
	app := newTestApp(t, &stubSource{})

	_, cmd := app.Update(menu.ChoiceSelectedMsg{Choice: menu.ChoiceQuit})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestWizardCompleteComputesPlan(t *testing.T) {
	src := &stubSource{result: stubResult()}
	app := newTestApp(t, src)

	model, cmd := app.Update(wizard.WizardCompleteMsg{Params: reefParams()})
	app = model.(*App)

	if app.screen != ScreenLoading {
		t.Errorf("expected ScreenLoading, got %d", app.screen)
	}
	if !strings.Contains(app.View(), "Computing decompression plan") {
		t.Error("expected loading text in view")
	}

	done, ok := findMsg[planComputedMsg](collect(cmd))
	if !ok {
		t.Fatal("expected planComputedMsg from the command")
	}
	if len(src.planned) != 1 || src.planned[0].Depth != 40 {
		t.Errorf("expected one 40m plan request, got %v", src.planned)
	}

	model, _ = app.Update(done)
	app = model.(*App)

	if app.screen != ScreenResults {
		t.Errorf("expected ScreenResults, got %d", app.screen)
	}
	if app.results == nil {
		t.Fatal("expected results view to be created")
	}
	if app.lastPlanned.IsZero() {
		t.Error("expected lastPlanned to be set")
	}
}

func TestPlanErrorShowsMessage(t *testing.T) {
	app := newTestApp(t, &stubSource{})
	app.params = &models.DiveParameters{}

	model, _ := app.Update(planComputedMsg{err: errors.New("depth must be positive")})
	app = model.(*App)

	if app.screen != ScreenResults {
		t.Errorf("expected ScreenResults, got %d", app.screen)
	}
	view := app.View()
	if !strings.Contains(view, "depth must be positive") {
		t.Error("expected error message in view")
	}

	// Strategies need a successful plan
	model, cmd := app.Update(key("s"))
	app = model.(*App)
	if cmd != nil || app.screen != ScreenResults {
		t.Error("expected strategies to be unavailable after a failed plan")
	}
}

func TestResultsKeys(t *testing.T) {
	src := &stubSource{
		result: stubResult(),
		resp:   &models.StrategyResponse{Plan: stubResult().Summary()},
	}
	app := newTestApp(t, src)

	params := reefParams()
	app.params = &params
	model, _ := app.Update(planComputedMsg{params: params, result: stubResult()})
	app = model.(*App)

	// Strategies
	model, cmd := app.Update(key("s"))
	app = model.(*App)
	if app.screen != ScreenLoading {
		t.Errorf("expected ScreenLoading after s, got %d", app.screen)
	}
	msg, ok := findMsg[strategiesComputedMsg](collect(cmd))
	if !ok {
		t.Fatal("expected strategiesComputedMsg")
	}
	model, _ = app.Update(msg)
	app = model.(*App)
	if app.screen != ScreenStrategies || app.strategyView == nil {
		t.Fatalf("expected strategies screen, got %d", app.screen)
	}
	if !strings.Contains(app.View(), "Illustrative only") {
		t.Error("expected the what-if note")
	}

	// Back to results
	model, _ = app.Update(key("b"))
	app = model.(*App)
	if app.screen != ScreenResults {
		t.Errorf("expected ScreenResults after b, got %d", app.screen)
	}

	// Edit opens the wizard with the current plan
	model, _ = app.Update(key("e"))
	app = model.(*App)
	if app.screen != ScreenWizard {
		t.Fatalf("expected ScreenWizard after e, got %d", app.screen)
	}
	if got := app.wizardScreen.Params().Depth; got != 40 {
		t.Errorf("expected wizard prefilled with 40m, got %v", got)
	}

	// Cancelling the wizard returns to the results
	model, _ = app.Update(wizard.WizardCancelledMsg{})
	app = model.(*App)
	if app.screen != ScreenResults {
		t.Errorf("expected ScreenResults after cancel, got %d", app.screen)
	}

	// Back goes to a menu that offers editing
	model, _ = app.Update(key("b"))
	app = model.(*App)
	if app.screen != ScreenMenu {
		t.Errorf("expected ScreenMenu after b, got %d", app.screen)
	}
	if app.params == nil || app.menu == nil {
		t.Error("expected the plan to be kept for editing from the menu")
	}
}

func TestResultsQuit(t *testing.T) {
	app := newTestApp(t, &stubSource{})
	app.screen = ScreenResults

	_, cmd := app.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestWizardCancelWithoutPlanReturnsToMenu(t *testing.T) {
	app := newTestApp(t, &stubSource{})
	app.Update(menu.ChoiceSelectedMsg{Choice: menu.ChoiceNewPlan})

	model, _ := app.Update(wizard.WizardCancelledMsg{})
	app = model.(*App)

	if app.screen != ScreenMenu {
		t.Errorf("expected ScreenMenu, got %d", app.screen)
	}
	if app.wizardScreen != nil {
		t.Error("expected wizard to be cleared")
	}
}

func TestFileSelectedPlansAndRecordsRecent(t *testing.T) {
	src := &stubSource{result: stubResult()}
	app := newTestApp(t, src)
	app.Update(menu.ChoiceSelectedMsg{Choice: menu.ChoiceOpenFile})

	plan := diveplan.New("house reef")
	plan.Depth = 18
	plan.BottomTime = 40
	path := filepath.Join(t.TempDir(), "reef.yaml")
	if err := diveplan.Save(path, plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	model, cmd := app.Update(filepicker.FileSelectedMsg{Path: path, Plan: plan})
	app = model.(*App)

	if app.screen != ScreenLoading {
		t.Errorf("expected ScreenLoading, got %d", app.screen)
	}
	if app.planName != "house reef" {
		t.Errorf("expected plan name 'house reef', got %q", app.planName)
	}
	if _, ok := findMsg[planComputedMsg](collect(cmd)); !ok {
		t.Error("expected planComputedMsg")
	}

	recent, err := app.recentFiles.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(recent) != 1 || recent[0] != path {
		t.Errorf("expected %s in recent files, got %v", path, recent)
	}
}

func TestRecentRemovedUpdatesList(t *testing.T) {
	app := newTestApp(t, &stubSource{})
	path := filepath.Join(t.TempDir(), "old.yaml")
	if err := os.WriteFile(path, []byte("depth: 30\nbottom_time: 20\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := app.recentFiles.Add(path); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	app.Update(filepicker.RecentRemovedMsg{Path: path})

	recent, err := app.recentFiles.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty recent list, got %v", recent)
	}
}

func TestFileSelectedImperialPlanConvertsToMetres(t *testing.T) {
	src := &stubSource{result: stubResult()}
	app := newTestApp(t, src)

	plan := diveplan.New("quarry")
	plan.Units = string(units.Imperial)
	plan.Depth = 100
	plan.BottomTime = 20

	_, cmd := app.Update(filepicker.FileSelectedMsg{Path: "/tmp/quarry.yaml", Plan: plan})
	collect(cmd)

	if len(src.planned) != 1 {
		t.Fatalf("expected one plan request, got %d", len(src.planned))
	}
	if got := src.planned[0].Depth; got < 30 || got > 31 {
		t.Errorf("expected about 30.5m, got %v", got)
	}
}

func TestAppViewReturnsContent(t *testing.T) {
	app := newTestApp(t, &stubSource{})
	app.width = 160

	view := app.View()
	if !strings.Contains(view, "Decompression Planner") {
		t.Error("expected view to contain 'Decompression Planner'")
	}

	params := reefParams()
	app.planName = "reference"
	app.Update(planComputedMsg{params: params, result: stubResult()})

	view = app.View()
	if !strings.Contains(view, "Actions") {
		t.Error("expected results view to contain 'Actions' on a wide terminal")
	}
	if !strings.Contains(view, "Strategies") {
		t.Error("expected footer to show the strategies key")
	}
	if !strings.Contains(view, "reference") {
		t.Error("expected plan name in header")
	}
	if !strings.Contains(view, "Planned just now") {
		t.Error("expected planned time in footer")
	}
}

func TestEndToEndWithLocalSource(t *testing.T) {
	app := newTestApp(t, planning.NewLocal())

	_, cmd := app.Update(wizard.WizardCompleteMsg{Params: reefParams()})
	done, ok := findMsg[planComputedMsg](collect(cmd))
	if !ok {
		t.Fatal("expected planComputedMsg")
	}
	if done.err != nil {
		t.Fatalf("expected plan to succeed, got %v", done.err)
	}
	if len(done.result.TissueTimeline) == 0 {
		t.Error("expected the TUI to request the tissue timeline")
	}

	app.Update(done)
	if !strings.Contains(app.View(), "Decompression Plan") {
		t.Error("expected results view")
	}
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{time.Second, "just now"},
		{30 * time.Second, "30s ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := formatTimeSince(time.Now().Add(-tc.ago)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
