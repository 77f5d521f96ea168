package render

import (
	"context"
	"os"
)

// toolResolver locates the external renderer and prober binaries.
type toolResolver interface {
	FFmpeg() (string, error)
	FFprobe() (string, error)
}

// renderRunner executes the renderer with a resolved argument list.
type renderRunner interface {
	Run(ctx context.Context, ffmpegPath string, args []string) error
}

// DurationProber measures media duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, mediaPath string) (float64, error)
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }
