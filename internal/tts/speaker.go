// Package tts turns narration scripts into WAV audio. Three providers are
// available: the system speech synthesizer (say or espeak), an external HTTP
// API, and a silent dummy track for offline testing. All providers emit
// 44.1kHz mono 16-bit PCM so downstream rendering never has to care which
// one produced the file.
package tts

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultWordsPerMinute is the assumed narration pace for duration estimates.
const DefaultWordsPerMinute = 150

// Speaker converts text to a WAV file at outputPath.
type Speaker interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// EstimateDuration predicts the spoken length of text in seconds.
// wordsPerMinute <= 0 uses the default pace.
func EstimateDuration(text string, wordsPerMinute int) float64 {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	return float64(len(strings.Fields(text))) / float64(wordsPerMinute) * 60
}

// Settings selects and configures a speech provider.
type Settings struct {
	// Provider is one of "local", "api", "dummy". Unknown values and
	// unconfigured providers fall back to the dummy speaker with a warning.
	Provider string

	// Voice names a system voice (local) or provider voice ID (api).
	Voice string

	// Rate is the speaking pace in words per minute. Zero keeps the
	// synthesizer's default.
	Rate int

	APIKey string
	APIURL string

	// Log receives fallback warnings. Nil discards them.
	Log io.Writer
}

// New creates the speaker selected by s. Like the rewriter factory it never
// fails; missing configuration degrades to the silent dummy provider.
func New(s Settings) Speaker {
	log := s.Log
	if log == nil {
		log = io.Discard
	}

	switch strings.ToLower(s.Provider) {
	case "local":
		var opts []LocalOption
		if s.Voice != "" {
			opts = append(opts, WithVoice(s.Voice))
		}
		if s.Rate > 0 {
			opts = append(opts, WithRate(s.Rate))
		}
		return NewLocalSpeaker(opts...)

	case "api":
		if s.APIKey == "" || s.APIURL == "" {
			fmt.Fprintln(log, "warning: TTS_API_KEY or TTS_API_URL not set, falling back to dummy speaker")
			return NewDummySpeaker()
		}
		var opts []APIOption
		if s.Voice != "" {
			opts = append(opts, WithAPIVoice(s.Voice))
		}
		return NewAPISpeaker(s.APIKey, s.APIURL, opts...)

	case "dummy", "":
		return NewDummySpeaker()

	default:
		fmt.Fprintf(log, "warning: unknown tts provider %q, using dummy speaker\n", s.Provider)
		return NewDummySpeaker()
	}
}
