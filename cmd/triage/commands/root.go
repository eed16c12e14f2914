// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

// Package commands implements the triage command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	noTUI      bool
	top        int
	batchSize  int
	bodyLimit  int
	workers    int
	model      string
	format     string
	workflow   string
	outFile    string
	maxRetries int
)

var rootCmd = &cobra.Command{
	Use:   "triage [owner/repo]",
	Short: "Label open GitHub issues P0/P1/P2 with an LLM",
	Long: `Fetch the open issues of a GitHub repository, send them to a language
model in small batches and print a priority report.

The repository defaults to the origin remote of the current git checkout.
Credentials come from GITHUB_TOKEN and GEMINI_API_KEY or OPENAI_API_KEY,
read from the environment or a .env file. Batches the model answers badly are
reported as "unknown" instead of failing the run.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTriage,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default: .github/triage.yaml or .triage.{yaml,toml})")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print step logs to stderr")
	flags.BoolVar(&noTUI, "no-tui", false, "Disable the interactive progress view")
	flags.IntVar(&top, "top", 0, "Number of open issues to triage (default 50)")
	flags.IntVar(&batchSize, "batch-size", 0, "Issues per LLM request (default 10)")
	flags.IntVar(&bodyLimit, "body-limit", 0, "Characters of each issue body sent to the LLM (default 1000)")
	flags.IntVar(&workers, "workers", 0, "Concurrent LLM requests (default 1)")
	flags.StringVar(&model, "model", "", "LLM model name (default: provider default or LLM_MODEL)")
	flags.StringVar(&format, "format", "", "Output format: table, json or csv (default table)")
	flags.StringVar(&workflow, "workflow", "", "Workflow preset: issue-priority or list-only")
	flags.StringVar(&outFile, "out-file", "", "Write json/csv output to a file instead of stdout")
	flags.IntVar(&maxRetries, "max-retries", 0, "Retries for transient LLM errors (429/5xx)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runTriage(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to load .env: %v\n", err)
	}

	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}

	plan, err := resolvePlan(cmd, args)
	if err != nil {
		return err
	}

	deps, cleanup, err := initializeDependencies(cmd.Context(), plan)
	if err != nil {
		return err
	}
	defer cleanup()

	return execute(cmd.Context(), plan, deps, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
