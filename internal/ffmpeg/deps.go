package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunResult carries the captured streams of one tool invocation.
type RunResult struct {
	Stdout string
	Stderr string
}

// commandRunner executes an external tool and captures its output streams.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string) (RunResult, error)
}

// envProvider abstracts environment and PATH lookups for testing.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// --- Default implementations using real OS functions ---

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) Run(ctx context.Context, name string, args []string) (RunResult, error) {
	// #nosec G204 -- name and args are built by this package, not user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return RunResult{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// osEnvProvider implements envProvider using the os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string { return os.Getenv(key) }

func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }
