package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
)

// checkOptions holds validated options for the check command.
type checkOptions struct {
	configPath string
	offline    bool
}

// CheckCmd creates the check command (verify the local setup).
// The env parameter provides injectable dependencies for testing.
func CheckCmd(env *Env) *cobra.Command {
	var (
		configPath string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, credentials, and external tools",
		Long: `Verify that the pipeline can run: configuration loads, Reddit
credentials are present and work, ffmpeg is installed, and a speech
synthesizer is available.

With --offline no network requests are made.`,
		Example: `  tiktokposter check
  tiktokposter check --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := checkOptions{
				configPath: configPath,
				offline:    offline,
			}
			return runCheck(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: search upward from the working directory)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip checks that need network access")

	return cmd
}

// runCheck executes the check command and reports one line per check.
func runCheck(ctx context.Context, env *Env, opts checkOptions) error {
	problems := 0
	report := func(ok bool, format string, args ...any) {
		status := "ok  "
		if !ok {
			status = "FAIL"
			problems++
		}
		fmt.Fprintf(env.Stdout, "%s %s\n", status, fmt.Sprintf(format, args...))
	}

	cfg, err := env.ConfigLoader.Load(opts.configPath)
	if err != nil {
		report(false, "config: %v", err)
		cfg = config.Default()
	} else {
		report(true, "config: %d subreddit(s) configured", len(cfg.Subreddits))
	}

	checkTools(env, cfg, report)
	checkCredentials(ctx, env, cfg, opts.offline, report)

	if problems > 0 {
		return fmt.Errorf("setup incomplete: %d problem(s) found", problems)
	}
	fmt.Fprintln(env.Stdout, "All checks passed.")
	return nil
}

// checkTools verifies the external binaries the pipeline shells out to.
func checkTools(env *Env, cfg config.Config, report func(bool, string, ...any)) {
	if path, err := env.ToolChecker.FFmpeg(); err != nil {
		report(false, "ffmpeg: %v", err)
	} else {
		report(true, "ffmpeg: %s", path)
	}

	if strings.EqualFold(cfg.TTS.Provider, "local") || cfg.TTS.Provider == "" {
		tool := ""
		for _, name := range []string{"say", "espeak"} {
			if _, err := env.ToolChecker.LookPath(name); err == nil {
				tool = name
				break
			}
		}
		if tool == "" {
			report(false, "speech: neither say nor espeak found")
		} else {
			report(true, "speech: %s", tool)
		}
	}
}

// checkCredentials verifies API credentials, and connectivity unless offline.
func checkCredentials(ctx context.Context, env *Env, cfg config.Config, offline bool, report func(bool, string, ...any)) {
	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		report(false, "reddit: set %s and %s", config.EnvRedditClientID, config.EnvRedditClientSecret)
	} else if offline {
		report(true, "reddit: credentials present (connection not tested)")
	} else {
		client, err := newClient(env, cfg)
		if err != nil {
			report(false, "reddit: %v", err)
		} else if err := client.TestConnection(ctx); err != nil {
			report(false, "reddit: %v", err)
		} else {
			report(true, "reddit: authenticated")
		}
	}

	switch strings.ToLower(cfg.Rewriter.Provider) {
	case "anthropic":
		report(cfg.Rewriter.AnthropicAPIKey != "", "rewriter: anthropic (%s)", keyStatus(cfg.Rewriter.AnthropicAPIKey, config.EnvAnthropicAPIKey))
	case "openai":
		report(cfg.Rewriter.OpenAIAPIKey != "", "rewriter: openai (%s)", keyStatus(cfg.Rewriter.OpenAIAPIKey, config.EnvOpenAIAPIKey))
	default:
		report(true, "rewriter: %s (no key needed)", cfg.Rewriter.Provider)
	}
}

// keyStatus describes whether an API key is set.
func keyStatus(key, envName string) string {
	if key == "" {
		return "set " + envName
	}
	return "key present"
}
