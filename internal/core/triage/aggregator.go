// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-13

package triage

import (
	"maps"
	"sync"
)

// Aggregator folds per-batch classification results into a PriorityMap.
//
// Merge policy is last-write-wins: when the same issue number is answered
// more than once, the later Merge call overrides the earlier one.
// Unrecognized labels are stored as-is and surface as unknown when rendered.
type Aggregator struct {
	mu         sync.Mutex
	priorities PriorityMap
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{priorities: make(PriorityMap)}
}

// Merge folds one batch's results into the map. Safe for concurrent use.
func (a *Aggregator) Merge(results []ClassificationResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range results {
		a.priorities[r.Number] = r.Priority
	}
}

// Map returns a snapshot of the accumulated priorities.
func (a *Aggregator) Map() PriorityMap {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.priorities)
}

// Fold merges result lists in order into a fresh map.
func Fold(batches ...[]ClassificationResult) PriorityMap {
	agg := NewAggregator()
	for _, results := range batches {
		agg.Merge(results)
	}
	return agg.Map()
}
