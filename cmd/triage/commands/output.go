// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-10
// Last Modified: 2026-10-17

package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/core/triage"
	"github.com/similigh/simili-triage/internal/tui"
)

// JSONOutput represents the JSON output structure
type JSONOutput struct {
	RunID         string         `json:"run_id,omitempty"`
	Repository    string         `json:"repository"`
	ProcessedAt   time.Time      `json:"processed_at"`
	Summary       triage.Summary `json:"summary"`
	Batches       int            `json:"batches"`
	FailedBatches []FailedBatch  `json:"failed_batches,omitempty"`
	Dropped       []int          `json:"dropped,omitempty"`
	Issues        []triage.Row   `json:"issues"`
}

// FailedBatch is one batch whose issues were reported unknown.
type FailedBatch struct {
	Batch  int    `json:"batch"`
	Issues []int  `json:"issues"`
	Error  string `json:"error"`
}

// writeOutput renders the report in the configured format to stdout, or to
// the --out-file path for json and csv.
func writeOutput(stdout, stderr io.Writer, plan *runPlan, pCtx *pipeline.Context) error {
	var data []byte
	var err error

	switch plan.Config.Output.Format {
	case "table":
		data = []byte(tui.RenderTable(plan.Repo, pCtx.Rows, pCtx.Summary))
	case "json":
		data, err = formatJSON(plan.Repo, pCtx, time.Now())
	case "csv":
		data, err = formatCSV(pCtx.Rows)
	default:
		return fmt.Errorf("unsupported format: %s (use table, json or csv)", plan.Config.Output.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if plan.OutFile != "" {
		if err := os.WriteFile(plan.OutFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(stderr, "✓ Results written to %s\n", plan.OutFile)
		return nil
	}

	_, err = stdout.Write(data)
	return err
}

// formatJSON formats the report as JSON
func formatJSON(repo string, pCtx *pipeline.Context, now time.Time) ([]byte, error) {
	rows := pCtx.Rows
	if rows == nil {
		rows = []triage.Row{}
	}

	output := JSONOutput{
		Repository:  repo,
		ProcessedAt: now,
		Summary:     pCtx.Summary,
		Issues:      rows,
	}

	if o := pCtx.Outcome; o != nil {
		output.RunID = o.RunID
		output.Batches = o.Batches
		output.Dropped = o.Dropped
		for _, f := range o.Failures {
			output.FailedBatches = append(output.FailedBatches, FailedBatch{
				Batch:  f.Batch,
				Issues: f.Numbers,
				Error:  f.Err.Error(),
			})
		}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// formatCSV formats the report as CSV
func formatCSV(rows []triage.Row) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{"number", "priority", "raw_priority", "title", "url"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Number),
			r.Label,
			r.Raw,
			r.Title,
			r.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}
