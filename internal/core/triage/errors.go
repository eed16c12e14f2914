// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-14

package triage

import (
	"errors"
	"fmt"
)

// ErrInvalidBatchSize is returned when the batch size is not positive.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

// SourceUnavailableError reports that the issue source could not be reached
// or the repository does not exist. It is fatal for the run.
type SourceUnavailableError struct {
	Repo string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("issue source unavailable for %s: %v", e.Repo, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports classifier output that could not be decoded
// into classification records. The whole batch is discarded.
type MalformedResponseError struct {
	Batch  int
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed classifier response for batch %d: %s: %v", e.Batch, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed classifier response for batch %d: %s", e.Batch, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// BatchError records why a batch produced no results. It never aborts a run.
type BatchError struct {
	Batch   int
	Numbers []int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d issues) failed: %v", e.Batch, len(e.Numbers), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// UnrecognizedLabelWarning is raised when the classifier answers with a label
// outside P0/P1/P2. The label is stored and rendered as unknown.
type UnrecognizedLabelWarning struct {
	Number int
	Label  PriorityLabel
}

func (w UnrecognizedLabelWarning) String() string {
	return fmt.Sprintf("issue #%d: unrecognized priority %q", w.Number, string(w.Label))
}
