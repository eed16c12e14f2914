// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/core/triage"
)

type staticSource struct {
	issues []triage.Issue
	err    error
}

func (s staticSource) FetchOpenIssues(context.Context, string, int) ([]triage.Issue, error) {
	return s.issues, s.err
}

// replyByFirst answers each prompt with the reply keyed by the batch's first
// issue number.
type replyByFirst map[int]string

func (r replyByFirst) Complete(_ context.Context, prompt triage.Prompt) (string, error) {
	var sent []struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(prompt.User), &sent); err != nil || len(sent) == 0 {
		return "", errors.New("bad prompt")
	}
	return r[sent[0].Number], nil
}

func threeIssues() []triage.Issue {
	return []triage.Issue{
		{Number: 1, Title: "A"},
		{Number: 2, Title: "B"},
		{Number: 3, Title: "C"},
	}
}

func testPlan(format string, steps []string) *runPlan {
	cfg := config.Default()
	cfg.Classifier.BatchSize = 2
	cfg.Output.Format = format
	return &runPlan{Repo: "acme/widgets", Config: cfg, Steps: steps}
}

func TestExecuteJSONReport(t *testing.T) {
	deps := &pipeline.Dependencies{
		Issues: staticSource{issues: threeIssues()},
		Completer: replyByFirst{
			1: `[{"number": 1, "priority": "P0"}, {"number": 2, "priority": "P2"}]`,
			3: `this is not json`,
		},
	}

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), testPlan("json", pipeline.Presets["issue-priority"]), deps, &stdout, &stderr); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}

	want := []string{"P0", "P2", "unknown"}
	if len(out.Issues) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(out.Issues))
	}
	for i, row := range out.Issues {
		if row.Number != i+1 || row.Label != want[i] {
			t.Errorf("row %d: expected #%d %s, got #%d %s", i, i+1, want[i], row.Number, row.Label)
		}
	}
	if out.Batches != 2 || len(out.FailedBatches) != 1 {
		t.Errorf("expected 2 batches with 1 failure, got %d/%d", out.Batches, len(out.FailedBatches))
	}
	if out.RunID == "" {
		t.Error("expected a run id")
	}
	if !strings.Contains(stderr.String(), "batch 2/2 failed") {
		t.Errorf("expected failed batch on stderr, got %q", stderr.String())
	}
}

func TestExecuteTableListOnly(t *testing.T) {
	deps := &pipeline.Dependencies{Issues: staticSource{issues: threeIssues()}}

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), testPlan("table", pipeline.Presets["list-only"]), deps, &stdout, &stderr); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Issue priorities for acme/widgets") {
		t.Errorf("expected table title, got %q", out)
	}
	if !strings.Contains(out, "3 issues: 0 P0, 0 P1, 0 P2, 3 unknown") {
		t.Errorf("expected summary footer, got %q", out)
	}
}

func TestExecuteNoOpenIssues(t *testing.T) {
	deps := &pipeline.Dependencies{
		Issues:    staticSource{},
		Completer: replyByFirst{},
	}

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), testPlan("csv", pipeline.Presets["issue-priority"]), deps, &stdout, &stderr); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "number,priority,raw_priority,title,url" {
		t.Errorf("expected header-only CSV, got %q", got)
	}
	if !strings.Contains(stderr.String(), "no open issues") {
		t.Errorf("expected skip notice on stderr, got %q", stderr.String())
	}
}

func TestExecuteSourceUnavailableIsFatal(t *testing.T) {
	deps := &pipeline.Dependencies{
		Issues:    staticSource{err: &triage.SourceUnavailableError{Repo: "acme/widgets", Err: errors.New("404")}},
		Completer: replyByFirst{},
	}

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), testPlan("table", pipeline.Presets["issue-priority"]), deps, &stdout, &stderr)

	var srcErr *triage.SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceUnavailableError, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no partial report, got %q", stdout.String())
	}
}
