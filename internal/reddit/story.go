// Package reddit fetches story posts from the Reddit API using app-only
// OAuth2 (client credentials). Only self posts with body text become stories;
// links, images, and videos are skipped at the source.
package reddit

import (
	"fmt"
	"strings"
	"time"
)

// Story is one Reddit text post. OriginalText is kept for filtering and
// paraphrasing but is never exported directly; ExportText enforces that.
type Story struct {
	ID           string
	Subreddit    string
	Title        string
	OriginalText string
	URL          string
	Author       string
	Score        int
	NumComments  int
	IsNSFW       bool
	CreatedUTC   float64

	// RewrittenText is the paraphrased script, set by the pipeline.
	RewrittenText string
	Processed     bool

	FetchedAt time.Time
}

// WordCount returns the word count of the original text.
func (s Story) WordCount() int {
	return len(strings.Fields(s.OriginalText))
}

// CharCount returns the character count of the original text.
func (s Story) CharCount() int {
	return len(s.OriginalText)
}

// RewrittenWordCount returns the word count of the rewritten text,
// or zero when the story has not been rewritten.
func (s Story) RewrittenWordCount() int {
	return len(strings.Fields(s.RewrittenText))
}

// ExportText returns the text to narrate. It always returns the rewritten
// script; requesting it before the story was paraphrased is an error.
func (s Story) ExportText() (string, error) {
	if strings.TrimSpace(s.RewrittenText) == "" {
		return "", fmt.Errorf("%w: story %s original content cannot be exported", ErrNotRewritten, s.ID)
	}
	return s.RewrittenText, nil
}

// String implements fmt.Stringer for log lines.
func (s Story) String() string {
	status := "raw"
	if s.Processed {
		status = "processed"
	}
	return fmt.Sprintf("Story(%s, r/%s, %d words, %s)", s.ID, s.Subreddit, s.WordCount(), status)
}
