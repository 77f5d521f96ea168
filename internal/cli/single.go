package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
)

// singleOptions holds validated options for the single command.
type singleOptions struct {
	configPath string
	postID     string
	subreddit  string
}

// SingleCmd creates the single command (process one story into a video).
// The env parameter provides injectable dependencies for testing.
func SingleCmd(env *Env) *cobra.Command {
	var (
		configPath string
		postID     string
		subreddit  string
	)

	cmd := &cobra.Command{
		Use:   "single",
		Short: "Turn one Reddit story into a narrated video",
		Long: `Turn one Reddit story into a narrated vertical video.

With --post-id the story is fetched directly. Otherwise the command fetches
a listing from the subreddit (or the first configured one), filters it, and
processes the first story that passes.

The original post text is paraphrased before narration; the output video,
audio, script, and subtitles land under the configured output directory.`,
		Example: `  tiktokposter single
  tiktokposter single --subreddit tifu
  tiktokposter single --post-id 1abc2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := singleOptions{
				configPath: configPath,
				postID:     postID,
				subreddit:  subreddit,
			}
			return runSingle(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: search upward from the working directory)")
	cmd.Flags().StringVar(&postID, "post-id", "", "Process a specific post by ID instead of fetching a listing")
	cmd.Flags().StringVarP(&subreddit, "subreddit", "s", "", "Subreddit to fetch from (default: first configured subreddit)")
	cmd.MarkFlagsMutuallyExclusive("post-id", "subreddit")

	return cmd
}

// runSingle executes the single command with validated options.
func runSingle(ctx context.Context, env *Env, opts singleOptions) error {
	cfg, err := env.ConfigLoader.Load(opts.configPath)
	if err != nil {
		return err
	}

	client, err := newClient(env, cfg)
	if err != nil {
		return err
	}

	target, err := pickStory(ctx, env, client, cfg, opts)
	if err != nil {
		return err
	}

	if err := config.EnsureDirectories(cfg); err != nil {
		return err
	}

	proc := env.ProcessorFactory.NewProcessor(cfg, env.Stderr)
	outcome, err := proc.Process(ctx, target)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Done: %s\n", outcome.Paths.Video)
	return nil
}

// pickStory fetches the requested post, or the first story from the listing
// that passes filtering.
func pickStory(ctx context.Context, env *Env, client StoryFetcher, cfg config.Config, opts singleOptions) (reddit.Story, error) {
	if opts.postID != "" {
		return client.FetchPostByID(ctx, opts.postID)
	}

	sub := opts.subreddit
	if sub == "" {
		subs, err := subredditList(nil, cfg)
		if err != nil {
			return reddit.Story{}, err
		}
		sub = subs[0]
	}

	fmt.Fprintf(env.Stderr, "Fetching r/%s...\n", sub)
	fetched, err := client.FetchPosts(ctx, sub, listingOptions(cfg))
	if err != nil {
		return reddit.Story{}, err
	}

	selected := newFilter(cfg).Select(fetched, 1, nil)
	if len(selected) == 0 {
		return reddit.Story{}, fmt.Errorf("%w: r/%s (%d fetched)", ErrNoStories, sub, len(fetched))
	}
	return selected[0], nil
}
