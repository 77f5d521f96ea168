package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/apierr"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/cli"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/render"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/tts"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitSetup     = 3
	ExitFetch     = 4
	ExitPipeline  = 5
	ExitInterrupt = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	// Root command.
	rootCmd := &cobra.Command{
		Use:     "tiktokposter",
		Short:   "Turn Reddit stories into narrated vertical videos",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Subcommands.
	rootCmd.AddCommand(cli.SingleCmd(env))
	rootCmd.AddCommand(cli.BatchCmd(env))
	rootCmd.AddCommand(cli.RewriteCmd(env))
	rootCmd.AddCommand(cli.CheckCmd(env))
	rootCmd.AddCommand(cli.SubredditsCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupt.
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	// These patterns are stable across Cobra versions (tested with v1.8+).
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3): missing config, credentials, or tools.
	if errors.Is(err, config.ErrNotFound) || errors.Is(err, reddit.ErrMissingCredentials) ||
		errors.Is(err, ffmpeg.ErrToolNotFound) || errors.Is(err, tts.ErrNoSpeechTool) ||
		errors.Is(err, cli.ErrNoSubreddits) || errors.Is(err, apierr.ErrAuthFailed) {
		return ExitSetup
	}

	// Fetch errors (ExitFetch = 4): Reddit API problems.
	if errors.Is(err, reddit.ErrPostNotFound) || errors.Is(err, reddit.ErrRequestFailed) ||
		errors.Is(err, cli.ErrNoStories) || errors.Is(err, apierr.ErrRateLimit) ||
		errors.Is(err, apierr.ErrQuotaExceeded) || errors.Is(err, apierr.ErrTimeout) {
		return ExitFetch
	}

	// Pipeline errors (ExitPipeline = 5): synthesis or rendering failed.
	if errors.Is(err, tts.ErrSynthesisFailed) || errors.Is(err, ffmpeg.ErrToolFailed) ||
		errors.Is(err, render.ErrFileNotFound) || errors.Is(err, render.ErrNoOutput) ||
		errors.Is(err, cli.ErrAllFailed) {
		return ExitPipeline
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
