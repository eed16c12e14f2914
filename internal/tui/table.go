// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/similigh/simili-triage/internal/core/triage"
	"github.com/similigh/simili-triage/internal/utils/text"
)

const maxTitleWidth = 80

var (
	p0Style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	p1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	p2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	headerStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(subtleColor)
)

// severityStyle maps a row severity to its colour. Unknown rows stay plain.
func severityStyle(s triage.Severity) lipgloss.Style {
	switch s {
	case triage.SeverityHigh:
		return p0Style
	case triage.SeverityMedium:
		return p1Style
	case triage.SeverityLow:
		return p2Style
	default:
		return lipgloss.NewStyle()
	}
}

// RenderTable renders the priority report for repo as a bordered table with
// a summary footer. Rows keep their given order.
func RenderTable(repo string, rows []triage.Row, summary triage.Summary) string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = []string{
			row.Label,
			strconv.Itoa(row.Number),
			text.Truncate(text.SingleLine(row.Title), maxTitleWidth),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtleColor)).
		Headers("Prio", "#", "Title").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 && row >= 0 && row < len(rows) {
				return cellStyle.Inherit(severityStyle(rows[row].Severity))
			}
			return cellStyle
		})

	var s strings.Builder
	s.WriteString(titleStyle.Render("Issue priorities for " + repo))
	s.WriteString("\n")
	s.WriteString(t.Render())
	s.WriteString("\n")
	s.WriteString(footerStyle.Render(FormatSummary(summary)))
	s.WriteString("\n")
	return s.String()
}

// FormatSummary renders per-label counts on one line.
func FormatSummary(s triage.Summary) string {
	return fmt.Sprintf("%d issues: %d P0, %d P1, %d P2, %d unknown", s.Total(), s.P0, s.P1, s.P2, s.Unknown)
}
