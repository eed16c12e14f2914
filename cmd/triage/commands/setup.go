// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/integrations/gemini"
	"github.com/similigh/simili-triage/internal/integrations/git"
	"github.com/similigh/simili-triage/internal/integrations/github"
)

// runPlan is everything resolved from flags, config and environment before
// any network call is made.
type runPlan struct {
	Repo    string
	Config  *config.Config
	Steps   []string
	OutFile string
	UseTUI  bool
	Verbose bool
}

// detectRepository is replaced in tests.
var detectRepository = func() (string, error) {
	return git.DetectRepository(".", "origin")
}

func resolvePlan(cmd *cobra.Command, args []string) (*runPlan, error) {
	cfg, err := loadConfig(cmd.Context(), cfgFile)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyFlagOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps, err := pipeline.ResolveSteps(cfg.Steps, cfg.Workflow)
	if err != nil {
		return nil, err
	}

	repo, err := resolveRepo(args, cfg)
	if err != nil {
		return nil, err
	}

	return &runPlan{
		Repo:    repo,
		Config:  cfg,
		Steps:   steps,
		OutFile: outFile,
		UseTUI:  shouldUseTUI(),
		Verbose: verbose,
	}, nil
}

// loadConfig finds and loads the config file. No file means defaults; an
// explicit path that does not exist is an error.
func loadConfig(ctx context.Context, explicit string) (*config.Config, error) {
	path := config.FindConfigPath(explicit)
	if path == "" {
		if explicit != "" {
			return nil, &config.ConfigurationError{Field: "config", Message: fmt.Sprintf("file %s not found", explicit)}
		}
		log.Printf("[config] no config file found, using defaults")
		return config.Default(), nil
	}

	token := os.Getenv("GITHUB_TOKEN")
	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, file, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		return github.NewClient(ctx, token).GetFileContent(ctx, org, repo, file, branch)
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "config", Message: err.Error()}
	}
	log.Printf("[config] loaded %s", path)
	return cfg, nil
}

// applyEnvOverrides fills unset credentials and model from the environment.
func applyEnvOverrides(cfg *config.Config) {
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if m := os.Getenv("LLM_MODEL"); m != "" && cfg.LLM.Model == "" {
		cfg.LLM.Model = m
	}
}

// applyFlagOverrides copies explicitly set flags onto cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("top") {
		cfg.Top = top
	}
	if flags.Changed("batch-size") {
		cfg.Classifier.BatchSize = batchSize
	}
	if flags.Changed("body-limit") {
		cfg.Classifier.BodyLimit = bodyLimit
	}
	if flags.Changed("workers") {
		cfg.Classifier.Workers = workers
	}
	if flags.Changed("model") {
		cfg.LLM.Model = model
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("workflow") {
		cfg.Workflow = workflow
		cfg.Steps = nil
	}
	if flags.Changed("max-retries") {
		cfg.LLM.MaxRetries = maxRetries
	}
}

// resolveRepo picks the repository from the argument, the config, the git
// origin remote, then the built-in default.
func resolveRepo(args []string, cfg *config.Config) (string, error) {
	repo := ""
	switch {
	case len(args) > 0:
		repo = args[0]
	case cfg.Repository != "":
		repo = cfg.Repository
	default:
		detected, err := detectRepository()
		if err != nil {
			log.Printf("[config] no GitHub origin remote (%v), using %s", err, config.DefaultRepo)
			detected = config.DefaultRepo
		}
		repo = detected
	}

	if _, _, err := github.SplitRepo(repo); err != nil {
		return "", &config.ConfigurationError{Field: "repository", Message: err.Error()}
	}
	return repo, nil
}

func shouldUseTUI() bool {
	if noTUI {
		return false
	}
	// Run without TUI in CI environments
	if os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// initializeDependencies builds the clients the plan's steps need. A missing
// LLM key is a configuration error only when a step calls the LLM.
func initializeDependencies(ctx context.Context, plan *runPlan) (*pipeline.Dependencies, func(), error) {
	cfg := plan.Config
	deps := &pipeline.Dependencies{
		Issues: github.NewClient(ctx, cfg.GitHub.Token),
	}
	if cfg.GitHub.Token == "" {
		log.Printf("[config] GITHUB_TOKEN not set, using unauthenticated requests")
	}

	cleanup := func() {}
	if !pipeline.NeedsClassifier(plan.Steps) {
		return deps, cleanup, nil
	}

	llm, err := gemini.NewLLMClientForProvider(gemini.Provider(cfg.LLM.Provider), cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, nil, &config.ConfigurationError{Field: "llm.api_key", Message: err.Error()}
	}
	if cfg.LLM.MaxRetries > 0 {
		rc := gemini.DefaultRetryConfig()
		rc.MaxRetries = cfg.LLM.MaxRetries
		llm.SetRetryConfig(rc)
	}
	log.Printf("[config] LLM provider %s, model %s", llm.Provider(), llm.Model())

	deps.Completer = llm
	cleanup = func() {
		if err := llm.Close(); err != nil {
			log.Printf("[config] failed to close LLM client: %v", err)
		}
	}
	return deps, cleanup, nil
}
