// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-12

package triage

import "iter"

// Chunk yields consecutive groups of at most n items, preserving order.
// The last group may be shorter. Nothing is yielded for empty input or n <= 0.
func Chunk[T any](items []T, n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if n <= 0 {
			return
		}
		for start := 0; start < len(items); start += n {
			end := min(start+n, len(items))
			if !yield(items[start:end:end]) {
				return
			}
		}
	}
}

// Batches splits issues into batches of size n, numbering them from zero.
func Batches(issues []Issue, n int) iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		index := 0
		for group := range Chunk(issues, n) {
			if !yield(Batch{Index: index, Issues: group}) {
				return
			}
			index++
		}
	}
}

// BatchCount returns ceil(total/n), the number of batches Batches yields.
func BatchCount(total, n int) int {
	if n <= 0 || total <= 0 {
		return 0
	}
	return (total + n - 1) / n
}
