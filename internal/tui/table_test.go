// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/similigh/simili-triage/internal/core/triage"
)

func TestRenderTable(t *testing.T) {
	issues := []triage.Issue{
		{Number: 12, Title: "Crash on start"},
		{Number: 7, Title: "Typo\nin docs"},
		{Number: 3, Title: "Slow export"},
	}
	rows := triage.BuildReport(issues, triage.PriorityMap{12: triage.PriorityP0, 3: "P7"})
	out := RenderTable("acme/widgets", rows, triage.Summarize(rows))

	assert.Contains(t, out, "Issue priorities for acme/widgets")
	assert.Contains(t, out, "Prio")
	assert.Contains(t, out, "Crash on start")
	assert.Contains(t, out, "Typo in docs")
	assert.Contains(t, out, "3 issues: 1 P0, 0 P1, 0 P2, 2 unknown")

	// Rows keep input order.
	first := strings.Index(out, "Crash on start")
	second := strings.Index(out, "Typo in docs")
	third := strings.Index(out, "Slow export")
	assert.True(t, first < second && second < third)
}

func TestRenderTableEmpty(t *testing.T) {
	out := RenderTable("acme/widgets", nil, triage.Summary{})
	assert.Contains(t, out, "0 issues: 0 P0, 0 P1, 0 P2, 0 unknown")
}

func TestSeverityStyle(t *testing.T) {
	assert.Equal(t, p0Style.GetForeground(), severityStyle(triage.SeverityHigh).GetForeground())
	assert.Equal(t, p1Style.GetForeground(), severityStyle(triage.SeverityMedium).GetForeground())
	assert.Equal(t, p2Style.GetForeground(), severityStyle(triage.SeverityLow).GetForeground())
	assert.Equal(t, lipgloss.NoColor{}, severityStyle(triage.SeverityNeutral).GetForeground())
}
