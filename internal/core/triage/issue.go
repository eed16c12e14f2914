// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-19

// Package triage implements the batch priority classification pipeline:
// batching issues, classifying each batch with a language model, folding the
// answers into a priority map and projecting that map back onto the issues.
package triage

// Issue is an open issue fetched from the tracker. It is immutable for the
// duration of a run.
type Issue struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	Body          string `json:"body,omitempty"`
	URL           string `json:"url,omitempty"`
	IsPullRequest bool   `json:"is_pull_request,omitempty"`
}

// PriorityLabel is the severity assigned by the classifier.
// The classifier's reply is kept verbatim; anything other than exactly P0,
// P1 or P2 (including "p1" or " P1 ") is not Known.
type PriorityLabel string

const (
	PriorityP0 PriorityLabel = "P0"
	PriorityP1 PriorityLabel = "P1"
	PriorityP2 PriorityLabel = "P2"
)

// UnknownLabel is rendered for issues without a recognized classification.
const UnknownLabel = "unknown"

// Known reports whether p is one of P0, P1 or P2.
func (p PriorityLabel) Known() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2:
		return true
	}
	return false
}

// ClassificationResult pairs an issue number with the label the classifier
// returned for it.
type ClassificationResult struct {
	Number   int           `json:"number"`
	Priority PriorityLabel `json:"priority"`
}

// PriorityMap maps issue numbers to their resolved labels.
type PriorityMap map[int]PriorityLabel

// Batch is a bounded, ordered group of issues sent in one classifier request.
type Batch struct {
	Index  int
	Issues []Issue
}

// Numbers returns the issue numbers in the batch, in order.
func (b Batch) Numbers() []int {
	nums := make([]int, len(b.Issues))
	for i, issue := range b.Issues {
		nums[i] = issue.Number
	}
	return nums
}

// contains reports whether number was sent in this batch.
func (b Batch) contains(number int) bool {
	for _, issue := range b.Issues {
		if issue.Number == number {
			return true
		}
	}
	return false
}
