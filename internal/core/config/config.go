// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package config handles loading and merging triage configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTop       = 50
	DefaultBatchSize = 10
	DefaultBodyLimit = 1000
	DefaultWorkers   = 1
	DefaultWorkflow  = "issue-priority"
	DefaultFormat    = "table"
	DefaultRepo      = "mendable/firecrawl"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty" toml:"extends,omitempty"`

	// Repository is the default "owner/repo" to triage.
	Repository string `yaml:"repository,omitempty" toml:"repository,omitempty"`

	// Top is how many open issues to fetch.
	Top int `yaml:"top,omitempty" toml:"top,omitempty"`

	// Workflow is a preset workflow name (e.g., "issue-priority").
	Workflow string `yaml:"workflow,omitempty" toml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty" toml:"steps,omitempty"`

	GitHub     GitHubConfig     `yaml:"github" toml:"github"`
	LLM        LLMConfig        `yaml:"llm" toml:"llm"`
	Classifier ClassifierConfig `yaml:"classifier" toml:"classifier"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
}

// GitHubConfig holds issue tracker credentials.
type GitHubConfig struct {
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider   string `yaml:"provider,omitempty" toml:"provider,omitempty"`
	APIKey     string `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	Model      string `yaml:"model,omitempty" toml:"model,omitempty"`
	MaxRetries int    `yaml:"max_retries,omitempty" toml:"max_retries,omitempty"`
}

// ClassifierConfig controls how issues are batched and sent.
type ClassifierConfig struct {
	BatchSize int `yaml:"batch_size,omitempty" toml:"batch_size,omitempty"`
	BodyLimit int `yaml:"body_limit,omitempty" toml:"body_limit,omitempty"`
	Workers   int `yaml:"workers,omitempty" toml:"workers,omitempty"`
	// BatchTimeout is a Go duration string such as "30s". Empty means no limit.
	BatchTimeout string `yaml:"batch_timeout,omitempty" toml:"batch_timeout,omitempty"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// ConfigurationError reports an invalid or missing setting.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Timeout returns the parsed per-batch timeout, or zero when unset.
// Call Validate first; an unparseable value yields zero.
func (c ClassifierConfig) Timeout() time.Duration {
	if c.BatchTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.BatchTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Load reads a config file from the given path and expands environment variables.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" || fetcher == nil {
		cfg.applyDefaults()
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	_, _, _, parentPath, err := ParseExtendsRef(cfg.Extends)
	if err != nil {
		return nil, err
	}
	parentCfg, err := parse(parentData, formatOf(parentPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func parse(data []byte, format string) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	switch format {
	case "toml":
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return &cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/triage.yaml",
		".github/triage.yml",
		".triage.yaml",
		".triage.yml",
		".triage.toml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Top == 0 {
		c.Top = DefaultTop
	}
	if c.Workflow == "" && len(c.Steps) == 0 {
		c.Workflow = DefaultWorkflow
	}
	if c.Classifier.BatchSize == 0 {
		c.Classifier.BatchSize = DefaultBatchSize
	}
	if c.Classifier.BodyLimit == 0 {
		c.Classifier.BodyLimit = DefaultBodyLimit
	}
	if c.Classifier.Workers == 0 {
		c.Classifier.Workers = DefaultWorkers
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
}

// Validate checks settings that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if c.Repository != "" {
		parts := strings.Split(c.Repository, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return &ConfigurationError{Field: "repository", Message: fmt.Sprintf("%q is not in owner/repo form", c.Repository)}
		}
	}
	if c.Top <= 0 {
		return &ConfigurationError{Field: "top", Message: "must be positive"}
	}
	if c.Classifier.BatchSize <= 0 {
		return &ConfigurationError{Field: "classifier.batch_size", Message: "must be positive"}
	}
	if c.Classifier.BodyLimit <= 0 {
		return &ConfigurationError{Field: "classifier.body_limit", Message: "must be positive"}
	}
	if c.Classifier.Workers <= 0 {
		return &ConfigurationError{Field: "classifier.workers", Message: "must be positive"}
	}
	if c.Classifier.BatchTimeout != "" {
		d, err := time.ParseDuration(c.Classifier.BatchTimeout)
		if err != nil || d < 0 {
			return &ConfigurationError{Field: "classifier.batch_timeout", Message: fmt.Sprintf("invalid duration %q", c.Classifier.BatchTimeout)}
		}
	}
	if c.LLM.MaxRetries < 0 {
		return &ConfigurationError{Field: "llm.max_retries", Message: "must not be negative"}
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "", "gemini", "openai":
	default:
		return &ConfigurationError{Field: "llm.provider", Message: fmt.Sprintf("unsupported provider %q", c.LLM.Provider)}
	}
	switch c.Output.Format {
	case "table", "json", "csv":
	default:
		return &ConfigurationError{Field: "output.format", Message: fmt.Sprintf("unsupported format %q (want table, json or csv)", c.Output.Format)}
	}
	return nil
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	if child.Repository != "" {
		result.Repository = child.Repository
	}
	if child.Top != 0 {
		result.Top = child.Top
	}
	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	if child.GitHub.Token != "" {
		result.GitHub.Token = child.GitHub.Token
	}

	if child.LLM.Provider != "" {
		result.LLM.Provider = child.LLM.Provider
	}
	if child.LLM.APIKey != "" {
		result.LLM.APIKey = child.LLM.APIKey
	}
	if child.LLM.Model != "" {
		result.LLM.Model = child.LLM.Model
	}
	if child.LLM.MaxRetries != 0 {
		result.LLM.MaxRetries = child.LLM.MaxRetries
	}

	if child.Classifier.BatchSize != 0 {
		result.Classifier.BatchSize = child.Classifier.BatchSize
	}
	if child.Classifier.BodyLimit != 0 {
		result.Classifier.BodyLimit = child.Classifier.BodyLimit
	}
	if child.Classifier.Workers != 0 {
		result.Classifier.Workers = child.Classifier.Workers
	}
	if child.Classifier.BatchTimeout != "" {
		result.Classifier.BatchTimeout = child.Classifier.BatchTimeout
	}

	if child.Output.Format != "" {
		result.Output.Format = child.Output.Format
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/triage.yaml"
	}

	return org, repo, branch, path, nil
}
