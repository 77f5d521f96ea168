package ffmpeg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
)

// fakeRunner is a scriptable commandRunner.
type fakeRunner struct {
	stdout string
	stderr string
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string) (ffmpeg.RunResult, error) {
	f.gotName = name
	f.gotArgs = args
	return ffmpeg.RunResult{Stdout: f.stdout, Stderr: f.stderr}, f.err
}

// fakeEnv is a scriptable envProvider.
type fakeEnv struct {
	env      map[string]string
	pathErr  error
	pathRoot string
}

func (f fakeEnv) Getenv(key string) string { return f.env[key] }

func (f fakeEnv) LookPath(file string) (string, error) {
	if f.pathErr != nil {
		return "", f.pathErr
	}
	return f.pathRoot + "/" + file, nil
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

func TestResolver_EnvOverride(t *testing.T) {
	t.Parallel()

	r := ffmpeg.NewResolver(ffmpeg.WithEnvProvider(fakeEnv{
		env: map[string]string{"FFMPEG_PATH": "/opt/ffmpeg/bin/ffmpeg"},
	}))

	path, err := r.FFmpeg()
	if err != nil {
		t.Fatalf("FFmpeg() error = %v", err)
	}
	if path != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpeg() = %q, want env override", path)
	}
}

func TestResolver_PathLookup(t *testing.T) {
	t.Parallel()

	r := ffmpeg.NewResolver(ffmpeg.WithEnvProvider(fakeEnv{pathRoot: "/usr/bin"}))

	path, err := r.FFprobe()
	if err != nil {
		t.Fatalf("FFprobe() error = %v", err)
	}
	if path != "/usr/bin/ffprobe" {
		t.Errorf("FFprobe() = %q, want PATH result", path)
	}
}

func TestResolver_NotFound(t *testing.T) {
	t.Parallel()

	r := ffmpeg.NewResolver(ffmpeg.WithEnvProvider(fakeEnv{
		pathErr: errors.New("executable file not found in $PATH"),
	}))

	_, err := r.FFmpeg()
	if !errors.Is(err, ffmpeg.ErrToolNotFound) {
		t.Fatalf("FFmpeg() error = %v, want ErrToolNotFound", err)
	}
	if !strings.Contains(err.Error(), "FFMPEG_PATH") {
		t.Errorf("error %q should mention the override variable", err)
	}
}

// ---------------------------------------------------------------------------
// Executor
// ---------------------------------------------------------------------------

func TestExecutor_Run(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	e := ffmpeg.NewExecutor(ffmpeg.WithCommandRunner(runner))

	args := []string{"-y", "-i", "in.mp4", "out.mp4"}
	if err := e.Run(context.Background(), "/usr/bin/ffmpeg", args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if runner.gotName != "/usr/bin/ffmpeg" {
		t.Errorf("ran %q, want ffmpeg path", runner.gotName)
	}
	if strings.Join(runner.gotArgs, " ") != strings.Join(args, " ") {
		t.Errorf("args = %v, want %v", runner.gotArgs, args)
	}
}

func TestExecutor_Run_FailureCarriesStderr(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		stderr: "out.mp4: Invalid argument\n",
		err:    errors.New("exit status 1"),
	}
	e := ffmpeg.NewExecutor(ffmpeg.WithCommandRunner(runner))

	err := e.Run(context.Background(), "ffmpeg", []string{"-bad"})
	if !errors.Is(err, ffmpeg.ErrToolFailed) {
		t.Fatalf("Run() error = %v, want ErrToolFailed", err)
	}
	if !strings.Contains(err.Error(), "Invalid argument") {
		t.Errorf("error %q should carry the tool's stderr", err)
	}
}

// ---------------------------------------------------------------------------
// Prober
// ---------------------------------------------------------------------------

func TestProber_Duration(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: `{"format":{"duration":"42.375000"}}`}
	p := ffmpeg.NewProber("/usr/bin/ffprobe", ffmpeg.WithProberCommandRunner(runner))

	got, err := p.Duration(context.Background(), "narration.wav")
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got != 42.375 {
		t.Errorf("Duration() = %v, want 42.375", got)
	}
	if strings.Join(runner.gotArgs, " ") != "-v quiet -print_format json -show_format narration.wav" {
		t.Errorf("unexpected ffprobe args: %v", runner.gotArgs)
	}
}

func TestProber_Duration_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		runner  *fakeRunner
		wantErr error
	}{
		{
			name:    "non-zero exit",
			runner:  &fakeRunner{stderr: "No such file or directory", err: errors.New("exit status 1")},
			wantErr: ffmpeg.ErrToolFailed,
		},
		{
			name:    "invalid json",
			runner:  &fakeRunner{stdout: "not json"},
			wantErr: ffmpeg.ErrProbeParse,
		},
		{
			name:    "missing duration field",
			runner:  &fakeRunner{stdout: `{"format":{}}`},
			wantErr: ffmpeg.ErrProbeParse,
		},
	}

	for _, tt := range tests {
		tt := tt // capture for parallel subtests
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := ffmpeg.NewProber("ffprobe", ffmpeg.WithProberCommandRunner(tt.runner))
			_, err := p.Duration(context.Background(), "x.wav")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Duration() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProber_Dimensions(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: `{"streams":[{"width":1920,"height":1080}]}`}
	p := ffmpeg.NewProber("ffprobe", ffmpeg.WithProberCommandRunner(runner))

	w, h, err := p.Dimensions(context.Background(), "bg.mp4")
	if err != nil {
		t.Fatalf("Dimensions() error = %v", err)
	}
	if w != 1920 || h != 1080 {
		t.Errorf("Dimensions() = %dx%d, want 1920x1080", w, h)
	}
}

func TestProber_Dimensions_NoVideoStream(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: `{"streams":[]}`}
	p := ffmpeg.NewProber("ffprobe", ffmpeg.WithProberCommandRunner(runner))

	_, _, err := p.Dimensions(context.Background(), "audio-only.wav")
	if !errors.Is(err, ffmpeg.ErrProbeParse) {
		t.Errorf("Dimensions() error = %v, want ErrProbeParse", err)
	}
}
