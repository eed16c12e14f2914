// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/simili-triage/internal/core/triage"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelTracksStepsAndBatches(t *testing.T) {
	ch := make(chan tea.Msg)
	m := NewModel("Triage acme/widgets", []string{"fetch_issues", "classify", "report"}, ch, nil)

	m = update(t, m, PipelineStatusMsg{Step: "fetch_issues", Status: StatusSuccess})
	m = update(t, m, PipelineStatusMsg{Step: "classify", Status: StatusStarted})
	m = update(t, m, BatchProgressMsg{Event: triage.BatchEvent{Index: 0, Total: 3, Size: 10, Applied: 10}})
	m = update(t, m, BatchProgressMsg{Event: triage.BatchEvent{Index: 1, Total: 3, Size: 10, Err: errors.New("timeout")}})

	view := m.View()
	assert.Contains(t, view, "Triage acme/widgets")
	assert.Contains(t, view, "✓ fetch_issues")
	assert.Contains(t, view, "classify (2/3 batches, 1 failed)")
	assert.Contains(t, view, "batch 1 failed: timeout")
	assert.Equal(t, 1, m.current)
}

func TestModelStepError(t *testing.T) {
	m := NewModel("t", []string{"fetch_issues"}, make(chan tea.Msg), nil)
	m = update(t, m, PipelineStatusMsg{Step: "fetch_issues", Status: StatusError, Message: "404"})

	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "step fetch_issues failed: 404")
}

func TestModelQuitCancelsRun(t *testing.T) {
	cancelled := false
	m := NewModel("t", nil, make(chan tea.Msg), func() { cancelled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, cancelled)
	assert.Empty(t, next.View())
}

func TestModelClosedChannelFinishes(t *testing.T) {
	ch := make(chan tea.Msg)
	close(ch)
	m := NewModel("t", nil, ch, nil)

	msg := m.waitForActivity()()
	assert.Equal(t, ResultMsg{}, msg)

	m = update(t, m, ResultMsg{Err: errors.New("boom")})
	assert.EqualError(t, m.Err(), "boom")
	assert.Empty(t, m.View())
}
