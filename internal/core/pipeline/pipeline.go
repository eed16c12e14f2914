// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package pipeline provides the step engine that drives one triage run.
// It defines the Step interface and the Context shared by all steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/triage"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., no open issues).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Repo is the "owner/repo" being triaged.
	Repo string

	// Config is the loaded configuration.
	Config *config.Config

	// Issues is the ordered issue list, set by fetch_issues.
	Issues []triage.Issue

	// Outcome is the classification result, set by classify.
	Outcome *triage.Outcome

	// Rows is the final report, set by report.
	Rows []triage.Row

	// Summary counts Rows per label.
	Summary triage.Summary

	// Skipped is set when a step ended the run early.
	Skipped    bool
	SkipReason string

	// Metadata allows steps to pass arbitrary data to subsequent steps.
	Metadata map[string]interface{}
}

// NewContext creates a new pipeline context for one repository.
func NewContext(ctx context.Context, repo string, cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Ctx:      ctx,
		Repo:     repo,
		Config:   cfg,
		Metadata: make(map[string]interface{}),
	}
}

// Priorities returns the classification map, or an empty map when no
// classification ran.
func (c *Context) Priorities() triage.PriorityMap {
	if c.Outcome == nil || c.Outcome.Priorities == nil {
		return triage.PriorityMap{}
	}
	return c.Outcome.Priorities
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				ctx.Skipped = true
				if ctx.SkipReason == "" {
					ctx.SkipReason = step.Name()
				}
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
