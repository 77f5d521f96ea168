package tts_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/tts"
)

// fakeLookuper resolves only the tools it was told exist.
type fakeLookuper struct {
	tools map[string]string
}

func (f fakeLookuper) LookPath(file string) (string, error) {
	if path, ok := f.tools[file]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

// fakeSpeechRunner records invocations and creates output files the way the
// real tools would.
type fakeSpeechRunner struct {
	invocations [][]string
	failOn      string
	stderr      string
}

func (f *fakeSpeechRunner) Run(_ context.Context, name string, args []string) (string, error) {
	f.invocations = append(f.invocations, append([]string{name}, args...))
	if f.failOn != "" && strings.Contains(name, f.failOn) {
		return f.stderr, errors.New("exit status 1")
	}
	// say/espeak write to the path after -o or -w; ffmpeg writes the last arg.
	out := args[len(args)-1]
	for i, a := range args {
		if (a == "-o" || a == "-w") && i+1 < len(args) {
			out = args[i+1]
		}
	}
	return "", os.WriteFile(out, []byte("audio"), 0o644)
}

type fakeFFmpegResolver struct {
	err error
}

func (f fakeFFmpegResolver) FFmpeg() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "/usr/bin/ffmpeg", nil
}

// ---------------------------------------------------------------------------
// LocalSpeaker
// ---------------------------------------------------------------------------

func TestLocalSynthesize_MacSay(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "audio", "story.wav")
	runner := &fakeSpeechRunner{}
	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(runner),
		tts.WithLocalLookuper(fakeLookuper{tools: map[string]string{"say": "/usr/bin/say"}}),
		tts.WithLocalResolver(fakeFFmpegResolver{}),
		tts.WithVoice("Samantha"),
		tts.WithRate(180),
	)

	if err := l.Synthesize(context.Background(), "hello world", out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if len(runner.invocations) != 2 {
		t.Fatalf("ran %d commands, want say then ffmpeg", len(runner.invocations))
	}
	say := strings.Join(runner.invocations[0], " ")
	if !strings.HasPrefix(say, "/usr/bin/say -o ") {
		t.Errorf("first command = %q, want say with -o", say)
	}
	for _, want := range []string{"-v Samantha", "-r 180", "hello world", ".raw.aiff"} {
		if !strings.Contains(say, want) {
			t.Errorf("say command %q missing %q", say, want)
		}
	}
	convert := strings.Join(runner.invocations[1], " ")
	for _, want := range []string{"/usr/bin/ffmpeg -y -i", "-acodec pcm_s16le", "-ar 44100", "-ac 1", out} {
		if !strings.Contains(convert, want) {
			t.Errorf("convert command %q missing %q", convert, want)
		}
	}

	// The intermediate file is cleaned up.
	raw := strings.TrimSuffix(out, ".wav") + ".raw.aiff"
	if _, err := os.Stat(raw); !os.IsNotExist(err) {
		t.Errorf("intermediate file %s still exists", raw)
	}
}

func TestLocalSynthesize_LinuxEspeak(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "story.wav")
	runner := &fakeSpeechRunner{}
	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(runner),
		tts.WithLocalLookuper(fakeLookuper{tools: map[string]string{"espeak": "/usr/bin/espeak"}}),
		tts.WithLocalResolver(fakeFFmpegResolver{}),
	)

	if err := l.Synthesize(context.Background(), "hello world", out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	got := strings.Join(runner.invocations[0], " ")
	if !strings.HasPrefix(got, "/usr/bin/espeak -w ") || !strings.Contains(got, ".raw.wav") {
		t.Errorf("espeak command = %q", got)
	}
}

func TestLocalSynthesize_NoSpeechTool(t *testing.T) {
	t.Parallel()

	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(&fakeSpeechRunner{}),
		tts.WithLocalLookuper(fakeLookuper{}),
		tts.WithLocalResolver(fakeFFmpegResolver{}),
	)

	err := l.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, tts.ErrNoSpeechTool) {
		t.Fatalf("Synthesize() error = %v, want ErrNoSpeechTool", err)
	}
}

func TestLocalSynthesize_FFmpegMissingBeforeSpeaking(t *testing.T) {
	t.Parallel()

	runner := &fakeSpeechRunner{}
	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(runner),
		tts.WithLocalLookuper(fakeLookuper{tools: map[string]string{"say": "/usr/bin/say"}}),
		tts.WithLocalResolver(fakeFFmpegResolver{err: ffmpeg.ErrToolNotFound}),
	)

	err := l.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, ffmpeg.ErrToolNotFound) {
		t.Fatalf("Synthesize() error = %v, want ErrToolNotFound", err)
	}
	if len(runner.invocations) != 0 {
		t.Error("synthesizer ran despite missing ffmpeg")
	}
}

func TestLocalSynthesize_SpeechFailureCarriesStderr(t *testing.T) {
	t.Parallel()

	runner := &fakeSpeechRunner{failOn: "say", stderr: "voice not found"}
	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(runner),
		tts.WithLocalLookuper(fakeLookuper{tools: map[string]string{"say": "/usr/bin/say"}}),
		tts.WithLocalResolver(fakeFFmpegResolver{}),
	)

	err := l.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Fatalf("Synthesize() error = %v, want ErrSynthesisFailed", err)
	}
	if !strings.Contains(err.Error(), "voice not found") {
		t.Errorf("error %q does not carry the tool stderr", err)
	}
}

func TestLocalSynthesize_EmptyText(t *testing.T) {
	t.Parallel()

	l := tts.NewLocalSpeaker(
		tts.WithLocalRunner(&fakeSpeechRunner{}),
		tts.WithLocalLookuper(fakeLookuper{tools: map[string]string{"say": "/usr/bin/say"}}),
		tts.WithLocalResolver(fakeFFmpegResolver{}),
	)
	if err := l.Synthesize(context.Background(), "  ", "out.wav"); !errors.Is(err, tts.ErrEmptyText) {
		t.Fatalf("Synthesize() error = %v, want ErrEmptyText", err)
	}
}
