// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-15

package triage

// Severity is the display association for a resolved label.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "neutral"
	}
}

// SeverityOf maps P0/P1/P2 to high/medium/low and anything else to neutral.
func SeverityOf(p PriorityLabel) Severity {
	switch p {
	case PriorityP0:
		return SeverityHigh
	case PriorityP1:
		return SeverityMedium
	case PriorityP2:
		return SeverityLow
	default:
		return SeverityNeutral
	}
}

// Row is one line of the priority report.
type Row struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	URL      string   `json:"url,omitempty"`
	Label    string   `json:"priority"`
	Raw      string   `json:"raw_priority,omitempty"`
	Severity Severity `json:"-"`
}

// BuildReport projects priorities onto issues, one row per issue in input
// order. Issues without a recognized label are marked unknown; an
// unrecognized raw label is kept in Raw so model drift stays visible.
func BuildReport(issues []Issue, priorities PriorityMap) []Row {
	rows := make([]Row, len(issues))
	for i, issue := range issues {
		row := Row{
			Number: issue.Number,
			Title:  issue.Title,
			URL:    issue.URL,
			Label:  UnknownLabel,
		}
		if p, ok := priorities[issue.Number]; ok {
			if p.Known() {
				row.Label = string(p)
			} else {
				row.Raw = string(p)
			}
		}
		row.Severity = SeverityOf(PriorityLabel(row.Label))
		rows[i] = row
	}
	return rows
}

// Summary counts report rows per label.
type Summary struct {
	P0      int `json:"p0"`
	P1      int `json:"p1"`
	P2      int `json:"p2"`
	Unknown int `json:"unknown"`
}

// Total returns the number of rows counted.
func (s Summary) Total() int {
	return s.P0 + s.P1 + s.P2 + s.Unknown
}

// Summarize counts rows per label.
func Summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		switch PriorityLabel(r.Label) {
		case PriorityP0:
			s.P0++
		case PriorityP1:
			s.P1++
		case PriorityP2:
			s.P2++
		default:
			s.Unknown++
		}
	}
	return s
}
