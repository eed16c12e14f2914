package triage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// scriptedCompleter answers each prompt with a canned reply keyed by the
// first issue number in the request.
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[int]string
	errs    map[int]error
	prompts []Prompt
}

func (s *scriptedCompleter) Complete(ctx context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	first, err := firstNumber(prompt.User)
	if err != nil {
		return "", err
	}
	if e, ok := s.errs[first]; ok {
		return "", e
	}
	reply, ok := s.replies[first]
	if !ok {
		return "", errors.New("no scripted reply")
	}
	return reply, nil
}

func firstNumber(user string) (int, error) {
	var items []promptIssue
	if err := jsonUnmarshal(user, &items); err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, errors.New("empty prompt")
	}
	return items[0].Number, nil
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
