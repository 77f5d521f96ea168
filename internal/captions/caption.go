// Package captions turns narration text plus a known audio duration into a
// timed caption track, serializes it as SRT, and builds the ffmpeg subtitle
// burn-in filter for it.
package captions

import "fmt"

// Caption is one timed subtitle block. Captions are produced in bulk by
// Segment and are immutable afterwards.
type Caption struct {
	Index int     // 1-based, contiguous
	Start float64 // seconds
	End   float64 // seconds, Start < End except for degenerate zero-duration input
	Text  string  // display text, may contain internal line breaks
}

// String returns a compact representation for logging.
func (c Caption) String() string {
	return fmt.Sprintf("caption %d: %s-%s", c.Index, Timestamp(c.Start), Timestamp(c.End))
}

// Timestamp converts seconds to the SRT timestamp format HH:MM:SS,mmm.
// Negative input is clamped to zero.
func Timestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	millis := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
