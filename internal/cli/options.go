package cli

import (
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/story"
)

// listingOptions maps fetch configuration onto Reddit listing options.
func listingOptions(cfg config.Config) reddit.ListingOptions {
	return reddit.ListingOptions{
		Sort:       cfg.Reddit.SortMode,
		TimeFilter: cfg.Reddit.TimeFilter,
		Limit:      cfg.Reddit.FetchLimit,
	}
}

// newFilter builds a story filter from the filtering configuration.
func newFilter(cfg config.Config) *story.Filter {
	return story.NewFilter(
		story.WithAllowNSFW(cfg.Filtering.AllowNSFW),
		story.WithLengthBounds(cfg.Filtering.MinStoryLength, cfg.Filtering.MaxStoryLength),
		story.WithBannedKeywords(cfg.Filtering.BannedKeywords),
	)
}

// newClient creates a Reddit client from configured credentials.
func newClient(env *Env, cfg config.Config) (StoryFetcher, error) {
	return env.ClientFactory.NewClient(
		cfg.Reddit.ClientID, cfg.Reddit.ClientSecret, cfg.Reddit.UserAgent)
}

// subredditList returns the flag override when given, otherwise the
// configured subreddits.
func subredditList(override []string, cfg config.Config) ([]string, error) {
	subs := override
	if len(subs) == 0 {
		subs = cfg.Subreddits
	}
	if len(subs) == 0 {
		return nil, ErrNoSubreddits
	}
	return subs, nil
}
