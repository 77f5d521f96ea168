package ffmpeg

import (
	"context"
	"fmt"
	"strings"
)

// Executor runs ffmpeg commands with an injectable command runner.
type Executor struct {
	cmd commandRunner
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(r commandRunner) ExecutorOption {
	return func(e *Executor) { e.cmd = r }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{cmd: osCommandRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes ffmpeg synchronously and waits for completion. A non-zero
// exit wraps ErrToolFailed with the captured stderr verbatim; no retry.
func (e *Executor) Run(ctx context.Context, ffmpegPath string, args []string) error {
	res, err := e.cmd.Run(ctx, ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: ffmpeg: %v: %s", ErrToolFailed, err, strings.TrimSpace(res.Stderr))
	}
	return nil
}
