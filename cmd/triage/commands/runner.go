// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-17

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/core/triage"
	"github.com/similigh/simili-triage/internal/steps"
	"github.com/similigh/simili-triage/internal/tui"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner pipeline.Step
	send  func(tea.Msg)
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.send(tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusStarted})

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.send(tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSkipped, Message: ctx.SkipReason})
			return err
		}
		s.send(tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusError, Message: err.Error()})
		return err
	}

	s.send(tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSuccess})
	return nil
}

// execute runs the plan's steps and writes the report.
func execute(ctx context.Context, plan *runPlan, deps *pipeline.Dependencies, stdout, stderr io.Writer) error {
	pCtx := pipeline.NewContext(ctx, plan.Repo, plan.Config)

	var err error
	if plan.UseTUI {
		err = runWithTUI(ctx, plan, deps, pCtx, stderr)
	} else {
		err = runPlain(plan, deps, pCtx, stderr)
	}
	if err != nil {
		return err
	}

	if pCtx.Skipped {
		fmt.Fprintf(stderr, "ℹ %s: %s\n", plan.Repo, pCtx.SkipReason)
	}
	printRunSummary(stderr, pCtx.Outcome)

	return writeOutput(stdout, stderr, plan, pCtx)
}

func buildPipeline(plan *runPlan, deps *pipeline.Dependencies, send func(tea.Msg)) (*pipeline.Pipeline, error) {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(plan.Steps, deps)
	if err != nil {
		return nil, err
	}

	// Wrap steps with status reporting
	var wrapped []pipeline.Step
	for _, step := range built.Steps() {
		wrapped = append(wrapped, &statusReportingStep{inner: step, send: send})
	}
	return pipeline.New(wrapped...), nil
}

// runPlain prints one line per step and per failed batch.
func runPlain(plan *runPlan, deps *pipeline.Dependencies, pCtx *pipeline.Context, stderr io.Writer) error {
	deps.OnBatch = func(e triage.BatchEvent) {
		switch {
		case e.Err != nil:
			fmt.Fprintf(stderr, "❌ batch %d/%d failed: %v\n", e.Index+1, e.Total, e.Err)
		case plan.Verbose:
			fmt.Fprintf(stderr, "✓ batch %d/%d: %d of %d issues labelled\n", e.Index+1, e.Total, e.Applied, e.Size)
		}
	}

	send := func(msg tea.Msg) {
		status, ok := msg.(tui.PipelineStatusMsg)
		if !ok || !plan.Verbose {
			return
		}
		switch status.Status {
		case tui.StatusStarted:
			fmt.Fprintf(stderr, "ℹ %s...\n", status.Step)
		case tui.StatusSuccess:
			fmt.Fprintf(stderr, "✓ %s\n", status.Step)
		}
	}

	p, err := buildPipeline(plan, deps, send)
	if err != nil {
		return err
	}
	return p.Run(pCtx)
}

// runWithTUI runs the pipeline in a goroutine while the progress view reads
// its messages. Quitting the view cancels the run.
func runWithTUI(ctx context.Context, plan *runPlan, deps *pipeline.Dependencies, pCtx *pipeline.Context, stderr io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pCtx.Ctx = ctx

	statusChan := make(chan tea.Msg)
	send := func(msg tea.Msg) {
		select {
		case statusChan <- msg:
		case <-ctx.Done():
		}
	}
	deps.OnBatch = func(e triage.BatchEvent) {
		send(tui.BatchProgressMsg{Event: e})
	}

	p, err := buildPipeline(plan, deps, send)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer close(statusChan)
		done <- p.Run(pCtx)
	}()

	view := tui.NewModel("Triaging "+plan.Repo, plan.Steps, statusChan, cancel)
	program := tea.NewProgram(view, tea.WithOutput(stderr))
	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("error running TUI: %w", err)
	}

	runErr := <-done
	if runErr != nil {
		return runErr
	}
	if ctx.Err() != nil {
		return fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return nil
}

func printRunSummary(w io.Writer, outcome *triage.Outcome) {
	if outcome == nil {
		return
	}
	fmt.Fprintf(w, "ℹ run %s: %d batches sent, %d failed, %d hallucinated records dropped, %d unrecognized labels\n",
		outcome.RunID, outcome.Batches, len(outcome.Failures), len(outcome.Dropped), len(outcome.Warnings))
}
