package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Prober inspects media files with ffprobe.
type Prober struct {
	ffprobePath string
	cmd         commandRunner
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberCommandRunner sets a custom command runner (for testing).
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) { p.cmd = r }
}

// NewProber creates a Prober that invokes the ffprobe binary at ffprobePath.
func NewProber(ffprobePath string, opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: ffprobePath,
		cmd:         osCommandRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// probeFormat mirrors the "format" object of ffprobe's JSON output.
type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeStreams mirrors the "streams" array of ffprobe's JSON output.
type probeStreams struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// Duration returns the duration of a media file in seconds.
// A non-zero ffprobe exit is a hard error carrying the captured stderr.
func (p *Prober) Duration(ctx context.Context, mediaPath string) (float64, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		mediaPath,
	}
	res, err := p.cmd.Run(ctx, p.ffprobePath, args)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %v: %s",
			ErrToolFailed, mediaPath, err, strings.TrimSpace(res.Stderr))
	}

	var out probeFormat
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeParse, err)
	}
	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", ErrProbeParse, out.Format.Duration, err)
	}
	return duration, nil
}

// Dimensions returns the width and height of the first video stream.
func (p *Prober) Dimensions(ctx context.Context, videoPath string) (int, int, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "v:0",
		videoPath,
	}
	res, err := p.cmd.Run(ctx, p.ffprobePath, args)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ffprobe %s: %v: %s",
			ErrToolFailed, videoPath, err, strings.TrimSpace(res.Stderr))
	}

	var out probeStreams
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrProbeParse, err)
	}
	if len(out.Streams) == 0 {
		return 0, 0, fmt.Errorf("%w: no video stream in %s", ErrProbeParse, videoPath)
	}
	return out.Streams[0].Width, out.Streams[0].Height, nil
}
