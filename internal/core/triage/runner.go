// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-16

package triage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultBatchSize is the number of issues sent per classifier request.
const DefaultBatchSize = 10

// BatchClassifier classifies a single batch. *Classifier implements it.
type BatchClassifier interface {
	ClassifyBatch(ctx context.Context, batch Batch) (Decoded, error)
}

// BatchEvent is reported once per completed batch, in fold order.
type BatchEvent struct {
	Index   int
	Total   int
	Size    int
	Applied int
	Err     error
}

// RunOptions controls batching and concurrency.
type RunOptions struct {
	// BatchSize is the maximum number of issues per request.
	BatchSize int

	// Workers bounds the number of concurrent classifier calls. Values below
	// one mean sequential processing.
	Workers int

	// OnBatch, if set, is called from the aggregating goroutine after each
	// batch is folded.
	OnBatch func(BatchEvent)
}

// Outcome is the result of classifying a full issue list.
type Outcome struct {
	RunID      string
	Priorities PriorityMap
	Batches    int
	Failures   []*BatchError
	Dropped    []int
	Warnings   []UnrecognizedLabelWarning
}

// batchResult carries one classified batch from a worker to the aggregator.
type batchResult struct {
	batch   Batch
	decoded Decoded
	err     error
}

// Run classifies issues batch by batch and folds the answers into a
// PriorityMap. Batch-level failures are recorded in the outcome and never
// returned as errors; only invalid options are.
//
// Results are folded in batch order regardless of completion order, so the
// outcome does not depend on Workers.
func Run(ctx context.Context, issues []Issue, classifier BatchClassifier, opts RunOptions) (*Outcome, error) {
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, opts.BatchSize)
	}

	total := BatchCount(len(issues), opts.BatchSize)
	out := &Outcome{
		RunID:   uuid.NewString(),
		Batches: total,
	}
	agg := NewAggregator()

	fold := func(r batchResult) {
		event := BatchEvent{Index: r.batch.Index, Total: total, Size: len(r.batch.Issues)}
		if r.err != nil {
			out.Failures = append(out.Failures, &BatchError{
				Batch:   r.batch.Index,
				Numbers: r.batch.Numbers(),
				Err:     r.err,
			})
			event.Err = r.err
		} else {
			agg.Merge(r.decoded.Results)
			out.Dropped = append(out.Dropped, r.decoded.Dropped...)
			out.Warnings = append(out.Warnings, r.decoded.Warnings...)
			event.Applied = len(r.decoded.Results)
		}
		if opts.OnBatch != nil {
			opts.OnBatch(event)
		}
	}

	if opts.Workers <= 1 || total <= 1 {
		for batch := range Batches(issues, opts.BatchSize) {
			fold(classifyOne(ctx, classifier, batch))
		}
	} else {
		runPool(ctx, issues, classifier, opts, total, fold)
	}

	out.Priorities = agg.Map()
	return out, nil
}

// runPool classifies batches with a bounded worker pool and hands results to
// fold in batch index order.
func runPool(ctx context.Context, issues []Issue, classifier BatchClassifier, opts RunOptions, total int, fold func(batchResult)) {
	workers := min(opts.Workers, total)
	jobs := make(chan Batch, workers)
	results := make(chan batchResult, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				results <- classifyOne(ctx, classifier, batch)
			}
		}()
	}

	go func() {
		for batch := range Batches(issues, opts.BatchSize) {
			jobs <- batch
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]batchResult)
	next := 0
	for r := range results {
		pending[r.batch.Index] = r
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			fold(ready)
			next++
		}
	}
}

func classifyOne(ctx context.Context, classifier BatchClassifier, batch Batch) batchResult {
	if err := ctx.Err(); err != nil {
		return batchResult{batch: batch, err: fmt.Errorf("batch not sent: %w", err)}
	}
	decoded, err := classifier.ClassifyBatch(ctx, batch)
	return batchResult{batch: batch, decoded: decoded, err: err}
}
