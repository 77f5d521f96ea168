package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/captions"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
)

// ProberFactory creates a duration prober for a resolved ffprobe binary.
type ProberFactory func(ffprobePath string) DurationProber

// Builder renders videos from render requests. It owns its tool handles for
// its lifetime; construct once per configuration with NewBuilder.
type Builder struct {
	segmenter *captions.Segmenter
	style     captions.Style
	captions  bool

	resolver  toolResolver
	runner    renderRunner
	newProber ProberFactory
	files     fileStatter
	log       io.Writer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithStyle sets the caption style.
func WithStyle(s captions.Style) BuilderOption {
	return func(b *Builder) { b.style = s }
}

// WithSegmenter sets the caption segmenter.
func WithSegmenter(s *captions.Segmenter) BuilderOption {
	return func(b *Builder) { b.segmenter = s }
}

// WithCaptions enables or disables caption generation.
func WithCaptions(enabled bool) BuilderOption {
	return func(b *Builder) { b.captions = enabled }
}

// WithToolResolver sets the tool resolver (for testing).
func WithToolResolver(r toolResolver) BuilderOption {
	return func(b *Builder) { b.resolver = r }
}

// WithRenderRunner sets the renderer executor (for testing).
func WithRenderRunner(r renderRunner) BuilderOption {
	return func(b *Builder) { b.runner = r }
}

// WithProberFactory sets the prober factory (for testing).
func WithProberFactory(f ProberFactory) BuilderOption {
	return func(b *Builder) { b.newProber = f }
}

// WithFileStatter sets the file statter (for testing).
func WithFileStatter(f fileStatter) BuilderOption {
	return func(b *Builder) { b.files = f }
}

// WithLog sets the writer for progress output and command echoing.
func WithLog(w io.Writer) BuilderOption {
	return func(b *Builder) { b.log = w }
}

// NewBuilder creates a Builder with the given options. Captions are enabled
// by default with the standard style.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		segmenter: captions.NewSegmenter(),
		style:     captions.DefaultStyle(),
		captions:  true,
		resolver:  ffmpeg.NewResolver(),
		runner:    ffmpeg.NewExecutor(),
		newProber: func(p string) DurationProber { return ffmpeg.NewProber(p) },
		files:     osFileStatter{},
		log:       io.Discard,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders one video. Sequencing: resolve tools, check inputs exist,
// probe narration duration, generate the caption track when enabled and text
// is present, assemble and log the command, run the renderer, verify the
// output exists, probe the output for the result record.
//
// All failures surface to the caller; nothing is retried here.
func (b *Builder) Build(ctx context.Context, req Request) (Result, error) {
	req = req.withDefaults()

	// Tool availability comes first, before any file I/O.
	ffmpegPath, err := b.resolver.FFmpeg()
	if err != nil {
		return Result{}, err
	}
	ffprobePath, err := b.resolver.FFprobe()
	if err != nil {
		return Result{}, err
	}

	if _, err := b.files.Stat(req.BackgroundPath); err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: background video %s", ErrFileNotFound, req.BackgroundPath)
		}
		return Result{}, fmt.Errorf("cannot access background video %s: %w", req.BackgroundPath, err)
	}
	if _, err := b.files.Stat(req.AudioPath); err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: narration audio %s", ErrFileNotFound, req.AudioPath)
		}
		return Result{}, fmt.Errorf("cannot access narration audio %s: %w", req.AudioPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0750); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	prober := b.newProber(ffprobePath)
	duration, err := prober.Duration(ctx, req.AudioPath)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(b.log, "narration duration: %.2fs\n", duration)

	srtPath, err := b.writeCaptions(req, duration)
	if err != nil {
		return Result{}, err
	}

	args := Command(req, duration, SubtitleFilter(b.style, srtPath))
	fmt.Fprintf(b.log, "ffmpeg %s\n", strings.Join(args, " "))

	if err := b.runner.Run(ctx, ffmpegPath, args); err != nil {
		return Result{}, err
	}

	info, err := b.files.Stat(req.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: expected %s", ErrNoOutput, req.OutputPath)
	}

	outDuration, err := prober.Duration(ctx, req.OutputPath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		VideoID:      uuid.NewString(),
		VideoPath:    req.OutputPath,
		AudioPath:    req.AudioPath,
		SubtitlePath: srtPath,
		Duration:     outDuration,
		SizeBytes:    info.Size(),
		GeneratedAt:  time.Now(),
	}, nil
}

// writeCaptions serializes the caption track next to the output file.
// Returns the SRT path, or empty when captions are disabled or no text.
func (b *Builder) writeCaptions(req Request, duration float64) (string, error) {
	if !b.captions || strings.TrimSpace(req.SubtitleText) == "" {
		return "", nil
	}

	track, err := b.segmenter.Segment(req.SubtitleText, duration)
	if err != nil {
		return "", err
	}
	if len(track) == 0 {
		return "", nil
	}

	srtPath := strings.TrimSuffix(req.OutputPath, filepath.Ext(req.OutputPath)) + ".srt"
	if err := captions.SaveSRT(srtPath, track); err != nil {
		return "", err
	}
	fmt.Fprintf(b.log, "wrote %d captions to %s\n", len(track), srtPath)
	return srtPath, nil
}

// BatchItem pairs a request with an identifier for batch reporting.
type BatchItem struct {
	ID      string
	Request Request
}

// BatchFailure records one failed batch item.
type BatchFailure struct {
	ID    string
	Error string
}

// BatchResult summarizes a best-effort batch run.
type BatchResult struct {
	Attempted  int
	Successful []Result
	Failed     []BatchFailure
}

// Summary returns a one-line account of the batch outcome.
func (r BatchResult) Summary() string {
	return fmt.Sprintf("%d/%d videos rendered, %d failed",
		len(r.Successful), r.Attempted, len(r.Failed))
}

// BuildBatch renders items strictly in order. A failed item is recorded and
// skipped; the batch never aborts early. Partial success is the expected
// steady state.
func (b *Builder) BuildBatch(ctx context.Context, items []BatchItem) BatchResult {
	result := BatchResult{Attempted: len(items)}

	for i, item := range items {
		fmt.Fprintf(b.log, "[%d/%d] rendering %s\n", i+1, len(items), item.ID)

		res, err := b.Build(ctx, item.Request)
		if err != nil {
			fmt.Fprintf(b.log, "failed %s: %v\n", item.ID, err)
			result.Failed = append(result.Failed, BatchFailure{ID: item.ID, Error: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, res)
	}

	return result
}
