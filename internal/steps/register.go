// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package steps

import (
	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("fetch_issues", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewFetchIssues(deps)
	})

	r.Register("classify", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewClassify(deps)
	})

	r.Register("report", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewReport(), nil
	})
}
