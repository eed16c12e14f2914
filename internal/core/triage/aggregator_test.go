package triage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_LastWriteWins(t *testing.T) {
	agg := NewAggregator()
	agg.Merge([]ClassificationResult{{Number: 1, Priority: PriorityP2}, {Number: 2, Priority: PriorityP1}})
	agg.Merge([]ClassificationResult{{Number: 1, Priority: PriorityP0}})

	assert.Equal(t, PriorityMap{1: PriorityP0, 2: PriorityP1}, agg.Map())
}

func TestAggregator_StoresUnrecognizedLabels(t *testing.T) {
	agg := NewAggregator()
	agg.Merge([]ClassificationResult{{Number: 9, Priority: "urgent"}})

	assert.Equal(t, PriorityLabel("urgent"), agg.Map()[9])
}

func TestAggregator_MapIsSnapshot(t *testing.T) {
	agg := NewAggregator()
	agg.Merge([]ClassificationResult{{Number: 1, Priority: PriorityP1}})

	snapshot := agg.Map()
	snapshot[1] = PriorityP2
	snapshot[5] = PriorityP0

	assert.Equal(t, PriorityMap{1: PriorityP1}, agg.Map())
}

func TestFold_Idempotent(t *testing.T) {
	batches := [][]ClassificationResult{
		{{Number: 1, Priority: PriorityP0}, {Number: 2, Priority: PriorityP2}},
		{{Number: 3, Priority: "P9"}},
		{{Number: 2, Priority: PriorityP1}},
	}

	first := Fold(batches...)
	second := Fold(batches...)

	assert.Equal(t, first, second)
	assert.Equal(t, PriorityMap{1: PriorityP0, 2: PriorityP1, 3: "P9"}, first)
}

func TestAggregator_ConcurrentMerge(t *testing.T) {
	agg := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			agg.Merge([]ClassificationResult{{Number: n, Priority: PriorityP2}})
		}(i)
	}
	wg.Wait()

	assert.Len(t, agg.Map(), 50)
}
