// Package tui provides the terminal user interface for Ponder.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchState tracks the current reasoning progress.
type SearchState struct {
	Task      string
	Mode      string // "chain" or "tree"
	Phase     string // "expanding", "synthesizing", "done"
	Nodes     int
	LastNode  string
	LastDepth int
}

// SearchUpdateMsg is sent when reasoning state changes.
type SearchUpdateMsg struct {
	State SearchState
}

// SearchLogEntry represents one line in the activity log.
type SearchLogEntry struct {
	Timestamp time.Time
	Phase     string
	Message   string
}

// SearchLogMsg appends an entry to the activity log.
type SearchLogMsg struct {
	Timestamp time.Time
	Phase     string
	Message   string
}

// SearchDoneMsg is sent when reasoning completes.
type SearchDoneMsg struct {
	Answer string
	Err    error
}

// SearchApp is the bubbletea model displayed while a reasoner runs.
type SearchApp struct {
	state    SearchState
	logs     []SearchLogEntry
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
	done     bool
	answer   string
	err      error

	// Styles
	headerStyle  lipgloss.Style
	labelStyle   lipgloss.Style
	valueStyle   lipgloss.Style
	phaseStyle   lipgloss.Style
	logStyle     lipgloss.Style
	logTimeStyle lipgloss.Style
	errorStyle   lipgloss.Style
	doneStyle    lipgloss.Style
	dimStyle     lipgloss.Style
}

// NewSearchApp creates a progress model for the given task and mode.
func NewSearchApp(task, mode string) *SearchApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &SearchApp{
		state:   SearchState{Task: task, Mode: mode},
		logs:    make([]SearchLogEntry, 0),
		spinner: sp,

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")).
			MarginBottom(1),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		phaseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		logStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		logTimeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true),

		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init implements tea.Model.
func (a *SearchApp) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *SearchApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case SearchUpdateMsg:
		a.state = msg.State

	case SearchLogMsg:
		a.logs = append(a.logs, SearchLogEntry{
			Timestamp: msg.Timestamp,
			Phase:     msg.Phase,
			Message:   msg.Message,
		})

	case SearchDoneMsg:
		a.done = true
		a.answer = msg.Answer
		a.err = msg.Err
		return a, tea.Quit
	}

	return a, nil
}

// View implements tea.Model.
func (a *SearchApp) View() string {
	if a.quitting {
		return "Reasoning cancelled.\n"
	}

	var b strings.Builder

	b.WriteString(a.headerStyle.Render("Ponder"))
	b.WriteString("\n")

	task := a.state.Task
	if len(task) > 70 {
		task = task[:67] + "..."
	}
	b.WriteString(a.labelStyle.Render("Task:"))
	b.WriteString(a.valueStyle.Render(task))
	b.WriteString("\n")

	b.WriteString(a.labelStyle.Render("Mode:"))
	b.WriteString(a.valueStyle.Render(a.state.Mode))
	b.WriteString("\n")

	phase := a.state.Phase
	if phase == "" {
		phase = "starting"
	}
	b.WriteString(a.labelStyle.Render("Phase:"))
	if !a.done {
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(a.phaseStyle.Render(phase))
	b.WriteString("\n")

	if a.state.Mode == "tree" {
		nodeStr := fmt.Sprintf("%d", a.state.Nodes)
		if a.state.LastNode != "" {
			nodeStr += fmt.Sprintf("  (last: %s at depth %d)", a.state.LastNode, a.state.LastDepth)
		}
		b.WriteString(a.labelStyle.Render("Nodes:"))
		b.WriteString(a.valueStyle.Render(nodeStr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderLogs())

	b.WriteString("\n")
	if a.done {
		if a.err != nil {
			b.WriteString(a.errorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
		} else {
			b.WriteString(a.doneStyle.Render("Reasoning complete."))
		}
	} else {
		b.WriteString(a.dimStyle.Render("Press q to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderLogs renders the recent log entries.
func (a *SearchApp) renderLogs() string {
	if len(a.logs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Render("Activity"))
	b.WriteString("\n")

	// Show last 8 log entries
	start := 0
	if len(a.logs) > 8 {
		start = len(a.logs) - 8
	}

	for _, entry := range a.logs[start:] {
		ts := a.logTimeStyle.Render(entry.Timestamp.Format("15:04:05"))
		phase := lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Width(14).
			Render(entry.Phase)
		msg := a.logStyle.Render(entry.Message)
		b.WriteString(fmt.Sprintf("  %s %s %s\n", ts, phase, msg))
	}

	return b.String()
}

// Err returns the terminal error, if any, after the program finishes.
func (a *SearchApp) Err() error {
	return a.err
}

// Cancelled reports whether the user quit before completion.
func (a *SearchApp) Cancelled() bool {
	return a.quitting && !a.done
}

// NewSearchProgram creates a bubbletea program for the progress display.
func NewSearchProgram(task, mode string) (*tea.Program, *SearchApp) {
	app := NewSearchApp(task, mode)
	p := tea.NewProgram(app)
	return p, app
}
