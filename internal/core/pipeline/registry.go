// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

package pipeline

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/triage"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// IssueSource lists open issues for a repository.
type IssueSource interface {
	FetchOpenIssues(ctx context.Context, repo string, limit int) ([]triage.Issue, error)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	Issues    IssueSource
	Completer triage.Completer

	// OnBatch receives progress events from the classify step. Optional.
	OnBatch func(triage.BatchEvent)
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// issue-priority: fetch, classify with the LLM, build the report
	"issue-priority": {
		"fetch_issues",
		"classify",
		"report",
	},

	// list-only: fetch and report without classification; every row is unknown
	"list-only": {
		"fetch_issues",
		"report",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default.
// A workflow that names no preset is a ConfigurationError.
func ResolveSteps(explicitSteps []string, workflow string) ([]string, error) {
	if len(explicitSteps) > 0 {
		return explicitSteps, nil
	}
	if workflow == "" {
		return Presets[config.DefaultWorkflow], nil
	}
	preset, ok := GetPreset(workflow)
	if !ok {
		return nil, &config.ConfigurationError{
			Field:   "workflow",
			Message: fmt.Sprintf("unknown workflow %q (want %s)", workflow, strings.Join(PresetNames(), ", ")),
		}
	}
	return preset, nil
}

// PresetNames returns the preset workflow names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// NeedsClassifier reports whether the resolved steps call the LLM.
func NeedsClassifier(steps []string) bool {
	return slices.Contains(steps, "classify")
}
