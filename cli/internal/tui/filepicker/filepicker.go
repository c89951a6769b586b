// ABOUTME: File picker TUI component for opening dive plan files
// ABOUTME: Shows recent plans, path input, and bundled sample plans

package filepicker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
	"github.com/arthurportas/tech-diving-app/cli/internal/tui/samples"
)

// State represents the current UI state
type state int

const (
	stateList state = iota
	stateInput
	stateSamples
)

// FileSelectedMsg is sent when a plan file has been read and validated
type FileSelectedMsg struct {
	Path string
	Plan *diveplan.Plan
}

// RecentRemovedMsg is sent when the user drops an entry from the recent list
type RecentRemovedMsg struct {
	Path string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the file selection component
type FilePicker struct {
	recentFiles []string
	samples     []samples.SampleFile
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const (
	labelEnterPath  = "Enter path..."
	labelLoadSample = "Load sample plan..."
	labelBack       = "[back]"
	dividerWidth    = 40
)

// New creates a new FilePicker
func New(recentFiles []string, sampleFiles []samples.SampleFile) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "~/dives/wreck-40m.yaml"
	ti.CharLimit = 256
	ti.Width = 60

	return &FilePicker{
		recentFiles: recentFiles,
		samples:     sampleFiles,
		state:       stateList,
		textInput:   ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		case stateSamples:
			return fp.updateSamples(msg)
		}
	}

	return fp, nil
}

func (fp *FilePicker) hasSamples() bool {
	return len(fp.samples) > 0
}

// moveCursor keeps the cursor inside [0, count)
func (fp *FilePicker) moveCursor(key string, count int) bool {
	switch key {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
		return true
	case "down", "j":
		if fp.cursor < count-1 {
			fp.cursor++
		}
		return true
	}
	return false
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if fp.moveCursor(key, fp.listItemCount()) {
		return fp, nil
	}

	switch key {
	case "enter":
		return fp.selectListItem()
	case "x", "delete":
		return fp.removeRecent()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Please enter a file path"
			return fp, nil
		}
		return fp.loadFile(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) updateSamples(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if fp.moveCursor(key, len(fp.samples)+1) { // +1 for [back]
		return fp, nil
	}

	switch key {
	case "enter":
		if fp.cursor < len(fp.samples) {
			return fp.loadFile(fp.samples[fp.cursor].Path)
		}
		fp.showList()
	case "esc", "b":
		fp.showList()
	}

	return fp, nil
}

func (fp *FilePicker) showList() {
	fp.state = stateList
	fp.cursor = 0
}

func (fp *FilePicker) listItemCount() int {
	count := len(fp.recentFiles) + 1 // Enter path...
	if fp.hasSamples() {
		count++
	}
	return count
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	recentCount := len(fp.recentFiles)

	switch {
	case fp.cursor < recentCount:
		return fp.loadFile(fp.recentFiles[fp.cursor])
	case fp.cursor == recentCount:
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink
	case fp.hasSamples() && fp.cursor == recentCount+1:
		fp.state = stateSamples
		fp.cursor = 0
	}

	return fp, nil
}

// removeRecent drops the highlighted recent file from the list
func (fp *FilePicker) removeRecent() (tea.Model, tea.Cmd) {
	if fp.cursor >= len(fp.recentFiles) {
		return fp, nil
	}

	path := fp.recentFiles[fp.cursor]
	fp.recentFiles = append(fp.recentFiles[:fp.cursor:fp.cursor], fp.recentFiles[fp.cursor+1:]...)
	fp.cursor = min(fp.cursor, fp.listItemCount()-1)

	return fp, func() tea.Msg { return RecentRemovedMsg{Path: path} }
}

func (fp *FilePicker) loadFile(path string) (tea.Model, tea.Cmd) {
	expandedPath := expandPath(path)
	if !samples.IsPlanFile(expandedPath) {
		fp.err = "Not a plan file (expected .yaml): " + path
		return fp, nil
	}

	plan, err := diveplan.Load(expandedPath)
	if err != nil {
		fp.err = describeLoadError(path, err)
		if errors.Is(err, fs.ErrNotExist) && fp.state == stateList {
			fp.err += " (x removes it from the list)"
		}
		return fp, nil
	}
	if plan.Name == "" {
		plan.Name = strings.TrimSuffix(filepath.Base(expandedPath), filepath.Ext(expandedPath))
	}

	return fp, func() tea.Msg {
		return FileSelectedMsg{Path: expandedPath, Plan: plan}
	}
}

func describeLoadError(path string, err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "File not found: " + path
	case errors.Is(err, fs.ErrPermission):
		return "Cannot read file: permission denied"
	default:
		return err.Error()
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}

// shortenPath keeps the tail of path within width display columns
func shortenPath(path string, width int) string {
	if width < 20 || lipgloss.Width(path) <= width {
		return path
	}
	r := []rune(path)
	keep := width - 1
	for keep > 0 && lipgloss.Width(string(r[len(r)-keep:])) > width-1 {
		keep--
	}
	return "…" + string(r[len(r)-keep:])
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	var b strings.Builder

	switch fp.state {
	case stateInput:
		b.WriteString(titleStyle.Render("Enter plan file path"))
		b.WriteString("\n\n")
		b.WriteString(fp.textInput.View())
		b.WriteString("\n")
	case stateSamples:
		fp.viewSamples(&b)
	default:
		fp.viewList(&b)
	}

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) item(b *strings.Builder, index int, label string) {
	if index == fp.cursor {
		b.WriteString("> " + selectedStyle.Render(label) + "\n")
		return
	}
	b.WriteString("  " + normalStyle.Render(label) + "\n")
}

func (fp *FilePicker) viewList(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Open dive plan"))
	b.WriteString("\n\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(helpStyle.Render("Recent plans:"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			fp.item(b, i, shortenPath(path, fp.width-10))
		}
		b.WriteString("\n")

		width := dividerWidth
		if fp.width > 4 {
			width = min(dividerWidth, fp.width-4)
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", width)))
		b.WriteString("\n")
	}

	idx := len(fp.recentFiles)
	fp.item(b, idx, labelEnterPath)
	if fp.hasSamples() {
		fp.item(b, idx+1, labelLoadSample)
	}

	if len(fp.recentFiles) > 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("x remove from recent"))
		b.WriteString("\n")
	}
}

func (fp *FilePicker) viewSamples(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Select sample plan"))
	b.WriteString("\n\n")

	for i, sample := range fp.samples {
		label := sample.Title
		if sample.Summary != "" {
			label += "  " + sample.Summary
		}
		fp.item(b, i, label)
		if label != sample.Name {
			b.WriteString("    " + helpStyle.Render(sample.Name) + "\n")
		}
	}

	fp.item(b, len(fp.samples), labelBack)
}
