// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

// Package steps contains the modular pipeline steps of a triage run.
// Each step implements the pipeline.Step interface.
package steps

import (
	"errors"
	"fmt"
	"log"

	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// FetchIssues loads the open issues of the target repository.
type FetchIssues struct {
	source pipeline.IssueSource
}

// NewFetchIssues creates a new fetch step.
func NewFetchIssues(deps *pipeline.Dependencies) (*FetchIssues, error) {
	if deps == nil || deps.Issues == nil {
		return nil, errors.New("fetch_issues requires an issue source")
	}
	return &FetchIssues{source: deps.Issues}, nil
}

// Name returns the step name.
func (s *FetchIssues) Name() string {
	return "fetch_issues"
}

// Run fetches up to Config.Top open issues. A run with no open issues ends
// early without error.
func (s *FetchIssues) Run(ctx *pipeline.Context) error {
	issues, err := s.source.FetchOpenIssues(ctx.Ctx, ctx.Repo, ctx.Config.Top)
	if err != nil {
		return fmt.Errorf("failed to fetch issues for %s: %w", ctx.Repo, err)
	}

	log.Printf("[fetch_issues] %s: %d open issues (limit %d)", ctx.Repo, len(issues), ctx.Config.Top)

	if len(issues) == 0 {
		ctx.SkipReason = "no open issues"
		return pipeline.ErrSkipPipeline
	}

	ctx.Issues = issues
	return nil
}
