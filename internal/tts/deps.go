package tts

import (
	"bytes"
	"context"
	"os/exec"
)

// commandRunner executes an external tool, capturing stderr for error
// reporting.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string) (stderr string, err error)
}

// pathLookuper abstracts PATH lookups for testing.
type pathLookuper interface {
	LookPath(file string) (string, error)
}

// toolResolver locates the ffmpeg binary for audio conversion.
type toolResolver interface {
	FFmpeg() (string, error)
}

// --- Default implementations using real OS functions ---

type osCommandRunner struct{}

func (osCommandRunner) Run(ctx context.Context, name string, args []string) (string, error) {
	// #nosec G204 -- name and args are built by this package, not user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

type osPathLookuper struct{}

func (osPathLookuper) LookPath(file string) (string, error) { return exec.LookPath(file) }
