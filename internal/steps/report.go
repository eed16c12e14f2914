// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"log"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/core/triage"
)

// Report joins the priorities onto the fetched issues.
type Report struct{}

// NewReport creates a new report step.
func NewReport() *Report {
	return &Report{}
}

// Name returns the step name.
func (s *Report) Name() string {
	return "report"
}

// Run builds ctx.Rows in issue order.
func (s *Report) Run(ctx *pipeline.Context) error {
	ctx.Rows = triage.BuildReport(ctx.Issues, ctx.Priorities())
	ctx.Summary = triage.Summarize(ctx.Rows)

	log.Printf("[report] %d rows: P0=%d P1=%d P2=%d unknown=%d",
		len(ctx.Rows), ctx.Summary.P0, ctx.Summary.P1, ctx.Summary.P2, ctx.Summary.Unknown)
	return nil
}
