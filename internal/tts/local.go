package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
)

// Compile-time interface compliance check.
var _ Speaker = (*LocalSpeaker)(nil)

// LocalSpeaker uses the system speech synthesizer: say on macOS, espeak
// elsewhere. The raw synthesizer output is converted to 44.1kHz mono WAV
// with ffmpeg, so both tools are required.
type LocalSpeaker struct {
	voice    string
	rate     int
	runner   commandRunner
	look     pathLookuper
	resolver toolResolver
}

// LocalOption configures a LocalSpeaker.
type LocalOption func(*LocalSpeaker)

// WithVoice selects a system voice by name.
func WithVoice(voice string) LocalOption {
	return func(l *LocalSpeaker) { l.voice = voice }
}

// WithRate sets the speaking pace in words per minute.
func WithRate(wpm int) LocalOption {
	return func(l *LocalSpeaker) {
		if wpm > 0 {
			l.rate = wpm
		}
	}
}

// WithLocalRunner sets a custom command runner (for testing).
func WithLocalRunner(r commandRunner) LocalOption {
	return func(l *LocalSpeaker) { l.runner = r }
}

// WithLocalLookuper sets a custom PATH lookuper (for testing).
func WithLocalLookuper(p pathLookuper) LocalOption {
	return func(l *LocalSpeaker) { l.look = p }
}

// WithLocalResolver sets a custom ffmpeg resolver (for testing).
func WithLocalResolver(r toolResolver) LocalOption {
	return func(l *LocalSpeaker) { l.resolver = r }
}

// NewLocalSpeaker creates a LocalSpeaker with the given options.
func NewLocalSpeaker(opts ...LocalOption) *LocalSpeaker {
	l := &LocalSpeaker{
		runner:   osCommandRunner{},
		look:     osPathLookuper{},
		resolver: ffmpeg.NewResolver(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Synthesize speaks text into a temporary file next to outputPath, then
// converts it to the canonical WAV profile. The intermediate file is removed
// on success and failure alike.
func (l *LocalSpeaker) Synthesize(ctx context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	ffmpegPath, err := l.resolver.FFmpeg()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}

	tool, args, rawPath, err := l.speechCommand(text, outputPath)
	if err != nil {
		return err
	}
	defer os.Remove(rawPath)

	if stderr, err := l.runner.Run(ctx, tool, args); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrSynthesisFailed, filepath.Base(tool), err, strings.TrimSpace(stderr))
	}
	if _, err := os.Stat(rawPath); err != nil {
		return fmt.Errorf("%w: %s produced no audio file", ErrSynthesisFailed, filepath.Base(tool))
	}

	convertArgs := []string{
		"-y",
		"-i", rawPath,
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		"-ac", "1",
		outputPath,
	}
	if stderr, err := l.runner.Run(ctx, ffmpegPath, convertArgs); err != nil {
		return fmt.Errorf("%w: audio conversion: %v: %s", ErrSynthesisFailed, err, strings.TrimSpace(stderr))
	}
	return nil
}

// speechCommand picks the installed synthesizer and builds its invocation.
// The raw output lands next to outputPath with the tool's native format.
func (l *LocalSpeaker) speechCommand(text, outputPath string) (tool string, args []string, rawPath string, err error) {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	if path, lookErr := l.look.LookPath("say"); lookErr == nil {
		rawPath = base + ".raw.aiff"
		args = []string{"-o", rawPath}
		if l.voice != "" {
			args = append(args, "-v", l.voice)
		}
		if l.rate > 0 {
			args = append(args, "-r", strconv.Itoa(l.rate))
		}
		return path, append(args, text), rawPath, nil
	}

	if path, lookErr := l.look.LookPath("espeak"); lookErr == nil {
		rawPath = base + ".raw.wav"
		args = []string{"-w", rawPath}
		if l.voice != "" {
			args = append(args, "-v", l.voice)
		}
		if l.rate > 0 {
			args = append(args, "-s", strconv.Itoa(l.rate))
		}
		return path, append(args, text), rawPath, nil
	}

	return "", nil, "", fmt.Errorf("%w: install 'espeak' (Linux) or use macOS 'say'", ErrNoSpeechTool)
}
