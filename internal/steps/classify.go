// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"errors"
	"log"

	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/core/triage"
)

// Classify sends the fetched issues to the LLM in batches and stores the
// resulting priorities on the context.
type Classify struct {
	completer triage.Completer
	onBatch   func(triage.BatchEvent)
}

// NewClassify creates a new classify step.
func NewClassify(deps *pipeline.Dependencies) (*Classify, error) {
	if deps == nil || deps.Completer == nil {
		return nil, errors.New("classify requires an LLM client")
	}
	return &Classify{completer: deps.Completer, onBatch: deps.OnBatch}, nil
}

// Name returns the step name.
func (s *Classify) Name() string {
	return "classify"
}

// Run classifies ctx.Issues. Failed batches are logged and leave their issues
// unknown; they never fail the step.
func (s *Classify) Run(ctx *pipeline.Context) error {
	cc := ctx.Config.Classifier
	classifier := triage.NewClassifier(s.completer,
		triage.WithBodyLimit(cc.BodyLimit),
		triage.WithBatchTimeout(cc.Timeout()),
	)

	outcome, err := triage.Run(ctx.Ctx, ctx.Issues, classifier, triage.RunOptions{
		BatchSize: cc.BatchSize,
		Workers:   cc.Workers,
		OnBatch:   s.onBatch,
	})
	if err != nil {
		return err
	}

	for _, f := range outcome.Failures {
		log.Printf("[classify] %v", f)
	}
	if len(outcome.Dropped) > 0 {
		log.Printf("[classify] dropped %d records for issues not in their batch: %v", len(outcome.Dropped), outcome.Dropped)
	}
	for _, w := range outcome.Warnings {
		log.Printf("[classify] %s", w)
	}
	log.Printf("[classify] run %s: %d batches, %d failed, %d issues labelled",
		outcome.RunID, outcome.Batches, len(outcome.Failures), len(outcome.Priorities))

	ctx.Outcome = outcome
	return nil
}
