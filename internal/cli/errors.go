package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrNoSubreddits indicates neither configuration nor flags name a subreddit.
	ErrNoSubreddits = errors.New("no subreddits configured")

	// ErrNoStories indicates no fetched story passed the filtering criteria.
	ErrNoStories = errors.New("no stories passed filtering")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrAllFailed indicates every story in a batch failed to process.
	ErrAllFailed = errors.New("all stories failed to process")
)
