// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-16

package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/similigh/simili-triage/internal/utils/text"
)

// DefaultBodyLimit bounds the number of body characters sent per issue.
const DefaultBodyLimit = 1000

const systemInstruction = `You are a senior product lead triaging a GitHub backlog.
Label each issue in the user message as P0, P1, or P2:
- P0: broken core functionality, data loss, security problems, or outages.
- P1: important bugs or features with a workaround or limited reach.
- P2: minor bugs, polish, questions, and nice-to-have requests.

Answer with a JSON list only, one record per issue, in the same order as the input:
[{"number": 123, "priority": "P0"}, ...]
Do not add commentary, reasoning, or any other fields.`

// Prompt is a single completion request.
type Prompt struct {
	System string
	User   string
}

// Completer is the language-model completion service. Implementations treat
// the reply as opaque text; all validation happens in DecodeResponse.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// promptIssue is the per-issue payload serialized into the user message.
type promptIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Classifier turns one batch into a completion request and decodes the reply.
// It never retries; retry is a policy of the Completer implementation.
type Classifier struct {
	completer    Completer
	bodyLimit    int
	batchTimeout time.Duration
}

// ClassifierOption customizes a Classifier.
type ClassifierOption func(*Classifier)

// WithBodyLimit sets the per-issue body truncation limit in characters.
func WithBodyLimit(limit int) ClassifierOption {
	return func(c *Classifier) {
		if limit > 0 {
			c.bodyLimit = limit
		}
	}
}

// WithBatchTimeout bounds each completion call. Zero disables the timeout.
func WithBatchTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		c.batchTimeout = d
	}
}

// NewClassifier creates a classifier backed by completer.
func NewClassifier(completer Completer, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		completer: completer,
		bodyLimit: DefaultBodyLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildPrompt formats a batch into a completion request.
func (c *Classifier) BuildPrompt(batch Batch) (Prompt, error) {
	items := make([]promptIssue, len(batch.Issues))
	for i, issue := range batch.Issues {
		items[i] = promptIssue{
			Number: issue.Number,
			Title:  issue.Title,
			Body:   text.Truncate(issue.Body, c.bodyLimit),
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to marshal batch %d: %w", batch.Index, err)
	}

	return Prompt{System: systemInstruction, User: string(payload)}, nil
}

// ClassifyBatch classifies one batch. A non-nil error means the whole batch
// produced no usable results: either the completion call failed (including a
// timeout) or the reply was a *MalformedResponseError.
func (c *Classifier) ClassifyBatch(ctx context.Context, batch Batch) (Decoded, error) {
	prompt, err := c.BuildPrompt(batch)
	if err != nil {
		return Decoded{}, err
	}

	if c.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.batchTimeout)
		defer cancel()
	}

	reply, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return Decoded{}, fmt.Errorf("classifier call failed: %w", err)
	}

	decoded := DecodeResponse(batch, reply)
	if !decoded.OK() {
		return decoded, decoded.Err
	}
	return decoded, nil
}
