package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SubredditsCmd creates the subreddits command (list configured sources).
// The env parameter provides injectable dependencies for testing.
func SubredditsCmd(env *Env) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "subreddits",
		Short: "List the configured story sources",
		Long: `List the subreddits stories are fetched from, with the configured
sort mode and fetch limit.`,
		Example: `  tiktokposter subreddits`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubreddits(env, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: search upward from the working directory)")

	return cmd
}

// runSubreddits executes the subreddits command.
func runSubreddits(env *Env, configPath string) error {
	cfg, err := env.ConfigLoader.Load(configPath)
	if err != nil {
		return err
	}

	subs, err := subredditList(nil, cfg)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		fmt.Fprintf(env.Stdout, "r/%s\n", sub)
	}
	fmt.Fprintf(env.Stderr, "sort=%s time=%s limit=%d\n",
		cfg.Reddit.SortMode, cfg.Reddit.TimeFilter, cfg.Reddit.FetchLimit)
	return nil
}
