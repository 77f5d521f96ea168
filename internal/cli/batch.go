package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/story"
)

// defaultBatchCount limits videos produced per run.
const defaultBatchCount = 3

// batchOptions holds validated options for the batch command.
type batchOptions struct {
	configPath string
	subreddits []string
	count      int
	sort       string
	timeFilter string
	limit      int
}

// BatchCmd creates the batch command (process several stories in one run).
// The env parameter provides injectable dependencies for testing.
func BatchCmd(env *Env) *cobra.Command {
	var (
		configPath string
		subreddits []string
		count      int
		sort       string
		timeFilter string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Turn several Reddit stories into narrated videos",
		Long: `Fetch stories from the configured subreddits, filter them, and process
up to --count of them into narrated vertical videos.

Stories run strictly one at a time. A failing story is reported and skipped;
the batch keeps going. The run ends with a per-story summary table.`,
		Example: `  tiktokposter batch
  tiktokposter batch --count 5
  tiktokposter batch -s AmItheAsshole -s tifu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := batchOptions{
				configPath: configPath,
				subreddits: subreddits,
				count:      count,
				sort:       sort,
				timeFilter: timeFilter,
				limit:      limit,
			}
			return runBatch(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: search upward from the working directory)")
	cmd.Flags().StringSliceVarP(&subreddits, "subreddit", "s", nil, "Subreddit to fetch from (repeatable; default: configured subreddits)")
	cmd.Flags().IntVarP(&count, "count", "n", defaultBatchCount, "Maximum number of videos to produce")
	cmd.Flags().StringVar(&sort, "sort", "", "Listing sort: top, hot, new, controversial (default: configured)")
	cmd.Flags().StringVar(&timeFilter, "time", "", "Time window for top/controversial: hour, day, week, month, year, all (default: configured)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Posts to fetch per subreddit (default: configured)")

	return cmd
}

// runBatch executes the batch command with validated options.
func runBatch(ctx context.Context, env *Env, opts batchOptions) error {
	if opts.count <= 0 {
		return fmt.Errorf("invalid argument: --count must be positive, got %d", opts.count)
	}

	cfg, err := env.ConfigLoader.Load(opts.configPath)
	if err != nil {
		return err
	}

	subs, err := subredditList(opts.subreddits, cfg)
	if err != nil {
		return err
	}

	client, err := newClient(env, cfg)
	if err != nil {
		return err
	}

	// Flags override the configured listing options.
	listing := listingOptions(cfg)
	if opts.sort != "" {
		listing.Sort = opts.sort
	}
	if opts.timeFilter != "" {
		listing.TimeFilter = opts.timeFilter
	}
	if opts.limit > 0 {
		listing.Limit = opts.limit
	}

	fmt.Fprintf(env.Stderr, "Fetching %d subreddit(s)...\n", len(subs))
	fetched := client.FetchMultiple(ctx, subs, listing.Limit, listing, env.Stderr)

	stats := &story.Stats{}
	selected := newFilter(cfg).Select(fetched, opts.count, stats)
	fmt.Fprintln(env.Stderr, stats.Summary())
	if len(selected) == 0 {
		return fmt.Errorf("%w: %d fetched", ErrNoStories, len(fetched))
	}

	if err := config.EnsureDirectories(cfg); err != nil {
		return err
	}

	proc := env.ProcessorFactory.NewProcessor(cfg, env.Stderr)
	outcome := proc.ProcessAll(ctx, selected)

	fmt.Fprintln(env.Stdout, summaryTable(outcome))
	fmt.Fprintln(env.Stderr, outcome.Summary())

	if len(outcome.Succeeded) == 0 {
		return fmt.Errorf("%w: %d attempted", ErrAllFailed, outcome.Attempted)
	}
	return nil
}
