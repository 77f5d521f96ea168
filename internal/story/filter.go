// Package story decides which fetched Reddit posts are worth turning into
// videos. Filtering is by length, NSFW status, banned keywords, and
// moderator-removed content.
package story

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
)

// Default length bounds, in characters of original text.
const (
	DefaultMinLength = 500
	DefaultMaxLength = 5000
)

// Reason classifies why a story was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNSFW
	ReasonTooShort
	ReasonTooLong
	ReasonBannedKeyword
	ReasonRemoved
)

// String implements fmt.Stringer for log lines and summaries.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "passed"
	case ReasonNSFW:
		return "NSFW content not allowed"
	case ReasonTooShort:
		return "too short"
	case ReasonTooLong:
		return "too long"
	case ReasonBannedKeyword:
		return "contains banned keyword"
	case ReasonRemoved:
		return "content removed or deleted"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of one filter check.
type Verdict struct {
	OK     bool
	Reason Reason
	Detail string
}

// Filter checks stories against configured criteria. Construct with
// NewFilter; the zero value rejects everything outside the default bounds.
type Filter struct {
	allowNSFW bool
	minLength int
	maxLength int
	banned    []*regexp.Regexp
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithAllowNSFW permits NSFW-flagged stories.
func WithAllowNSFW(allow bool) FilterOption {
	return func(f *Filter) { f.allowNSFW = allow }
}

// WithLengthBounds sets the accepted original-text length range in characters.
func WithLengthBounds(minChars, maxChars int) FilterOption {
	return func(f *Filter) {
		if minChars > 0 {
			f.minLength = minChars
		}
		if maxChars > 0 {
			f.maxLength = maxChars
		}
	}
}

// WithBannedKeywords rejects stories whose title or text contains any of the
// given keywords, matched case-insensitively as literal text.
func WithBannedKeywords(keywords []string) FilterOption {
	return func(f *Filter) {
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			f.banned = append(f.banned, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(kw)))
		}
	}
}

// NewFilter creates a Filter with the given options.
func NewFilter(opts ...FilterOption) *Filter {
	f := &Filter{
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Check runs one story through every criterion. Checks run in a fixed
// order; the first failing criterion decides the verdict.
func (f *Filter) Check(s reddit.Story) Verdict {
	if s.IsNSFW && !f.allowNSFW {
		return Verdict{Reason: ReasonNSFW, Detail: "NSFW content not allowed"}
	}

	if n := s.CharCount(); n < f.minLength {
		return Verdict{
			Reason: ReasonTooShort,
			Detail: fmt.Sprintf("too short (%d chars < %d)", n, f.minLength),
		}
	} else if n > f.maxLength {
		return Verdict{
			Reason: ReasonTooLong,
			Detail: fmt.Sprintf("too long (%d chars > %d)", n, f.maxLength),
		}
	}

	combined := s.Title + " " + s.OriginalText
	for _, pattern := range f.banned {
		if pattern.MatchString(combined) {
			return Verdict{
				Reason: ReasonBannedKeyword,
				Detail: fmt.Sprintf("contains banned keyword: %s", pattern.String()),
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(s.OriginalText)) {
	case "[removed]", "[deleted]":
		return Verdict{Reason: ReasonRemoved, Detail: "content has been removed or deleted"}
	}

	return Verdict{OK: true}
}

// Select returns the stories that pass all criteria, in input order,
// stopping after max passing stories. max <= 0 means no limit. Every check
// is recorded in stats when stats is non-nil.
func (f *Filter) Select(stories []reddit.Story, max int, stats *Stats) []reddit.Story {
	var selected []reddit.Story

	for _, s := range stories {
		v := f.Check(s)
		if stats != nil {
			stats.Record(v)
		}
		if !v.OK {
			continue
		}
		selected = append(selected, s)
		if max > 0 && len(selected) >= max {
			break
		}
	}
	return selected
}
