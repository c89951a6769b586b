// ABOUTME: Start menu for the planner TUI
// ABOUTME: Embedded huh select choosing between a new plan and a plan file

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Choice is the action picked from the start menu
type Choice int

const (
	ChoiceNewPlan Choice = iota
	ChoiceOpenFile
	ChoiceQuit
)

// ChoiceSelectedMsg is sent when the user confirms a menu entry
type ChoiceSelectedMsg struct {
	Choice Choice
}

// CancelledMsg is sent when the user backs out of the menu
type CancelledMsg struct{}

type option struct {
	label string
	value Choice
}

// Menu is the bubbletea model for the start menu
type Menu struct {
	options  []option
	selected Choice
	form     *huh.Form
	done     bool
}

// New creates the start menu. When hasPlan is set the first entry edits
// the current plan instead of starting from defaults.
func New(hasPlan bool) *Menu {
	first := "New dive plan"
	if hasPlan {
		first = "Edit current plan"
	}
	m := &Menu{
		options: []option{
			{label: first, value: ChoiceNewPlan},
			{label: "Open plan file", value: ChoiceOpenFile},
			{label: "Quit", value: ChoiceQuit},
		},
		selected: ChoiceNewPlan,
	}
	m.form = m.buildForm()
	return m
}

func (m *Menu) buildForm() *huh.Form {
	options := make([]huh.Option[Choice], 0, len(m.options))
	for _, opt := range m.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title("What would you like to do?").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(huh.ThemeBase()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.done = true
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.done = true
		choice := m.selected
		return m, func() tea.Msg { return ChoiceSelectedMsg{Choice: choice} }
	case huh.StateAborted:
		m.done = true
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// Selected returns the highlighted choice
func (m *Menu) Selected() Choice {
	return m.selected
}

// String returns the string representation of a Choice
func (c Choice) String() string {
	switch c {
	case ChoiceNewPlan:
		return "new"
	case ChoiceOpenFile:
		return "open"
	case ChoiceQuit:
		return "quit"
	default:
		return "unknown"
	}
}
