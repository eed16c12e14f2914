// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package tui renders triage progress and the final priority table.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/simili-triage/internal/core/triage"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeStepStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneStepStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStepStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// Step statuses carried by PipelineStatusMsg.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// PipelineStatusMsg indicates a status update from the pipeline.
type PipelineStatusMsg struct {
	Step    string
	Status  string
	Message string
}

// BatchProgressMsg reports one folded classifier batch.
type BatchProgressMsg struct {
	Event triage.BatchEvent
}

// ResultMsg indicates the run has finished.
type ResultMsg struct {
	Err error
}

// Model for the TUI.
type Model struct {
	title      string
	spinner    spinner.Model
	steps      []string
	current    int
	status     map[string]string // step -> status
	logs       []string
	done       int
	total      int
	failed     int
	quitting   bool
	err        error
	statusChan <-chan tea.Msg
	cancel     context.CancelFunc
}

// NewModel creates a new TUI model. Messages are read from statusChan until it
// is closed. cancel, if set, is called when the user quits early.
func NewModel(title string, steps []string, statusChan <-chan tea.Msg, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		title:      title,
		spinner:    s,
		steps:      steps,
		status:     make(map[string]string),
		statusChan: statusChan,
		cancel:     cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PipelineStatusMsg:
		m.status[msg.Step] = msg.Status
		if msg.Message != "" {
			m.logs = append(m.logs, fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), msg.Step, msg.Message))
		}

		for i, s := range m.steps {
			if s == msg.Step {
				m.current = i
				break
			}
		}

		if msg.Status == StatusError {
			m.err = fmt.Errorf("step %s failed: %s", msg.Step, msg.Message)
		}

		return m, m.waitForActivity()

	case BatchProgressMsg:
		m.done++
		m.total = msg.Event.Total
		if msg.Event.Err != nil {
			m.failed++
			m.logs = append(m.logs, fmt.Sprintf("[%s] classify: batch %d failed: %v",
				time.Now().Format("15:04:05"), msg.Event.Index, msg.Event.Err))
		}
		return m, m.waitForActivity()

	case ResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.statusChan
		if !ok {
			return ResultMsg{}
		}
		return msg
	}
}

// Err returns the last error seen by the model.
func (m Model) Err() error {
	return m.err
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	for i, step := range m.steps {
		status := m.status[step]

		prefix := "  "
		style := stepStyle

		if i == m.current {
			prefix = m.spinner.View() + " "
			style = activeStepStyle
		}

		switch status {
		case StatusSuccess:
			prefix = "✓ "
			style = doneStepStyle
		case StatusError:
			prefix = "✗ "
			style = errorStepStyle
		case StatusSkipped:
			prefix = "○ "
			style = stepStyle.Faint(true)
		}

		label := step
		if step == "classify" && m.total > 0 {
			label = fmt.Sprintf("%s (%d/%d batches", step, m.done, m.total)
			if m.failed > 0 {
				label += fmt.Sprintf(", %d failed", m.failed)
			}
			label += ")"
		}

		s.WriteString(style.Render(prefix+label) + "\n")
	}

	s.WriteString("\nLogs:\n")
	// Show last 5 logs
	start := 0
	if len(m.logs) > 5 {
		start = len(m.logs) - 5
	}
	for _, log := range m.logs[start:] {
		s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render(log) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStepStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	s.WriteString(lipgloss.NewStyle().Foreground(subtleColor).Render("\nPress q to quit\n"))

	return s.String()
}
