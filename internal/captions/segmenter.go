package captions

import (
	"fmt"
	"strings"
)

// Segmentation defaults, matching the subtitle settings the renderer expects.
const (
	// DefaultWordsPerCaption is the window size in words for one caption.
	DefaultWordsPerCaption = 4

	// DefaultMaxLineChars is the character budget for one wrapped line.
	DefaultMaxLineChars = 35

	// readabilityGap delays every caption after the first by a fixed amount
	// so consecutive blocks don't blur together. The gap only shifts the
	// next caption's start; it never shortens the previous caption. With
	// very short segments this can leave a momentary overlap, which is the
	// intended behavior.
	readabilityGap = 0.05
)

// Segmenter splits narration text into timed caption windows.
// The zero value is not usable; use NewSegmenter.
type Segmenter struct {
	wordsPerCaption int
	maxLineChars    int
}

// SegmenterOption configures a Segmenter.
type SegmenterOption func(*Segmenter)

// WithWordsPerCaption sets the caption window size in words.
// Values below 1 are ignored.
func WithWordsPerCaption(n int) SegmenterOption {
	return func(s *Segmenter) {
		if n >= 1 {
			s.wordsPerCaption = n
		}
	}
}

// WithMaxLineChars sets the line-wrap budget in characters.
// Values below 1 are ignored.
func WithMaxLineChars(n int) SegmenterOption {
	return func(s *Segmenter) {
		if n >= 1 {
			s.maxLineChars = n
		}
	}
}

// NewSegmenter creates a Segmenter with the given options.
func NewSegmenter(opts ...SegmenterOption) *Segmenter {
	s := &Segmenter{
		wordsPerCaption: DefaultWordsPerCaption,
		maxLineChars:    DefaultMaxLineChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment converts text plus a total audio duration into an ordered caption
// track. Timing is linear interpolation: each word gets duration/totalWords
// seconds, and a caption spans its word window. Empty or whitespace-only
// text yields an empty track, not an error. A duration of zero produces
// degenerate zero-length captions, which is accepted.
//
// Returns ErrNegativeDuration for negative durations.
func (s *Segmenter) Segment(text string, duration float64) ([]Caption, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: %.3f", ErrNegativeDuration, duration)
	}

	words := strings.Fields(text)
	totalWords := len(words)
	if totalWords == 0 {
		return nil, nil
	}

	timePerWord := duration / float64(totalWords)

	var track []Caption
	index := 1
	for w := 0; w < totalWords; w += s.wordsPerCaption {
		end := w + s.wordsPerCaption
		if end > totalWords {
			end = totalWords
		}
		window := words[w:end]

		start := float64(w) * timePerWord
		stop := float64(w+len(window)) * timePerWord
		if stop > duration {
			stop = duration
		}

		// Shift every caption after the first; clamp so the gap never
		// pushes a caption's start past its own end.
		if index > 1 && start+readabilityGap <= stop {
			start += readabilityGap
		}

		track = append(track, Caption{
			Index: index,
			Start: start,
			End:   stop,
			Text:  s.wrap(strings.Join(window, " ")),
		})
		index++
	}

	return track, nil
}

// wrap greedily packs words onto lines of at most maxLineChars characters.
// A single word longer than the budget occupies its own line unshortened.
func (s *Segmenter) wrap(text string) string {
	words := strings.Fields(text)

	var lines []string
	var current []string
	length := 0

	for _, word := range words {
		sep := 0
		if len(current) > 0 {
			sep = 1
		}
		if length+sep+len(word) <= s.maxLineChars {
			current = append(current, word)
			length += sep + len(word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
		length = len(word)
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	return strings.Join(lines, "\n")
}
