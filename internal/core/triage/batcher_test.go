package triage

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIssues(n int) []Issue {
	issues := make([]Issue, n)
	for i := range issues {
		issues[i] = Issue{Number: i + 1, Title: fmt.Sprintf("issue %d", i+1)}
	}
	return issues
}

func TestBatches_SizesAndOrder(t *testing.T) {
	for _, length := range []int{0, 1, 2, 9, 10, 11, 25, 50} {
		for _, n := range []int{1, 2, 3, 10, 100} {
			t.Run(fmt.Sprintf("L=%d/n=%d", length, n), func(t *testing.T) {
				issues := makeIssues(length)
				batches := slices.Collect(Batches(issues, n))

				require.Len(t, batches, BatchCount(length, n))

				var flat []Issue
				for i, b := range batches {
					assert.Equal(t, i, b.Index)
					if i < len(batches)-1 {
						assert.Len(t, b.Issues, n)
					} else {
						want := length % n
						if want == 0 {
							want = n
						}
						assert.Len(t, b.Issues, want)
					}
					flat = append(flat, b.Issues...)
				}
				if length == 0 {
					assert.Empty(t, flat)
				} else {
					assert.Equal(t, issues, flat)
				}
			})
		}
	}
}

func TestBatches_LargerThanInput(t *testing.T) {
	issues := makeIssues(3)
	batches := slices.Collect(Batches(issues, 10))

	require.Len(t, batches, 1)
	assert.Equal(t, []int{1, 2, 3}, batches[0].Numbers())
}

func TestBatches_EarlyStop(t *testing.T) {
	seen := 0
	for range Batches(makeIssues(30), 10) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestChunk_NonPositiveSize(t *testing.T) {
	assert.Empty(t, slices.Collect(Chunk([]int{1, 2, 3}, 0)))
	assert.Empty(t, slices.Collect(Chunk([]int{1, 2, 3}, -4)))
}

func TestChunk_AppendDoesNotClobberNextGroup(t *testing.T) {
	groups := slices.Collect(Chunk([]int{1, 2, 3, 4}, 2))
	require.Len(t, groups, 2)

	_ = append(groups[0], 99)
	assert.Equal(t, []int{3, 4}, groups[1])
}
