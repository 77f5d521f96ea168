// Package pipeline orchestrates the full story-to-video flow: paraphrase
// the story, save the script, synthesize narration, and render the video.
// Stories are processed strictly one at a time; a slow external tool is the
// bottleneck either way and sequential runs keep API rate limits happy.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/render"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/rewrite"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/tts"
)

// Paths collects every artifact location for one story.
type Paths struct {
	Script   string
	Audio    string
	Video    string
	Subtitle string
}

// OutputPaths derives the artifact paths for a story ID under the output
// directory.
func OutputPaths(outputDir, storyID string) Paths {
	name := "story_" + storyID
	return Paths{
		Script:   filepath.Join(outputDir, config.ScriptsDir, name+".txt"),
		Audio:    filepath.Join(outputDir, config.AudioDir, name+".wav"),
		Video:    filepath.Join(outputDir, config.VideoDir, name+".mp4"),
		Subtitle: filepath.Join(outputDir, config.SubtitlesDir, name+".srt"),
	}
}

// Outcome records one processed story.
type Outcome struct {
	Story  reddit.Story
	Paths  Paths
	Result render.Result
}

// videoBuilder abstracts the renderer for testing.
type videoBuilder interface {
	Build(ctx context.Context, req render.Request) (render.Result, error)
}

// Processor runs stories through the rewrite, narration, and render stages.
type Processor struct {
	cfg      config.Config
	rewriter rewrite.Rewriter
	speaker  tts.Speaker
	builder  videoBuilder
	log      io.Writer
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRewriter sets the story rewriter.
func WithRewriter(r rewrite.Rewriter) ProcessorOption {
	return func(p *Processor) { p.rewriter = r }
}

// WithSpeaker sets the speech synthesizer.
func WithSpeaker(s tts.Speaker) ProcessorOption {
	return func(p *Processor) { p.speaker = s }
}

// WithBuilder sets the video builder.
func WithBuilder(b videoBuilder) ProcessorOption {
	return func(p *Processor) { p.builder = b }
}

// WithLog sets the progress writer.
func WithLog(w io.Writer) ProcessorOption {
	return func(p *Processor) { p.log = w }
}

// NewProcessor wires a Processor from configuration. Options replace the
// default stages, mainly for testing.
func NewProcessor(cfg config.Config, opts ...ProcessorOption) *Processor {
	p := &Processor{cfg: cfg, log: io.Discard}
	for _, opt := range opts {
		opt(p)
	}

	if p.rewriter == nil {
		p.rewriter = rewrite.New(rewrite.Settings{
			Provider:        cfg.Rewriter.Provider,
			AnthropicAPIKey: cfg.Rewriter.AnthropicAPIKey,
			AnthropicModel:  cfg.Rewriter.AnthropicModel,
			OpenAIAPIKey:    cfg.Rewriter.OpenAIAPIKey,
			OpenAIModel:     cfg.Rewriter.OpenAIModel,
			Log:             p.log,
		})
	}
	if p.speaker == nil {
		p.speaker = tts.New(tts.Settings{
			Provider: cfg.TTS.Provider,
			Voice:    cfg.TTS.Voice,
			Rate:     cfg.TTS.Rate,
			APIKey:   cfg.TTS.APIKey,
			APIURL:   cfg.TTS.APIURL,
			Log:      p.log,
		})
	}
	if p.builder == nil {
		p.builder = render.NewBuilder(
			render.WithStyle(styleFromConfig(cfg.Subtitles)),
			render.WithSegmenter(segmenterFromConfig(cfg.Subtitles)),
			render.WithCaptions(cfg.Subtitles.Enabled),
			render.WithLog(p.log),
		)
	}
	return p
}

// Process runs one story through the full flow and returns where everything
// landed. The story comes back with its rewritten script attached.
func (p *Processor) Process(ctx context.Context, story reddit.Story) (Outcome, error) {
	paths := OutputPaths(p.cfg.Video.OutputDirectory, story.ID)

	fmt.Fprintf(p.log, "rewriting story %s (%d words)\n", story.ID, story.WordCount())
	script, err := p.rewriter.Rewrite(ctx, story.OriginalText, p.cfg.Rewriter.TargetWordCount)
	if err != nil {
		return Outcome{}, fmt.Errorf("rewrite story %s: %w", story.ID, err)
	}
	story.RewrittenText = script
	story.Processed = true

	if err := saveScript(paths.Script, script); err != nil {
		return Outcome{}, fmt.Errorf("save script for story %s: %w", story.ID, err)
	}

	text, err := story.ExportText()
	if err != nil {
		return Outcome{}, err
	}

	fmt.Fprintf(p.log, "synthesizing narration for story %s\n", story.ID)
	if err := p.speaker.Synthesize(ctx, text, paths.Audio); err != nil {
		return Outcome{}, fmt.Errorf("synthesize story %s: %w", story.ID, err)
	}

	fmt.Fprintf(p.log, "rendering video for story %s\n", story.ID)
	result, err := p.builder.Build(ctx, render.Request{
		BackgroundPath: p.cfg.Video.BackgroundVideoPath,
		AudioPath:      paths.Audio,
		OutputPath:     paths.Video,
		SubtitleText:   text,
		Width:          p.cfg.Video.Width,
		Height:         p.cfg.Video.Height,
		FPS:            p.cfg.Video.FPS,
		VideoCodec:     p.cfg.Video.VideoCodec,
		AudioCodec:     p.cfg.Video.AudioCodec,
		CRF:            p.cfg.Video.CRF,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("render story %s: %w", story.ID, err)
	}

	return Outcome{Story: story, Paths: paths, Result: result}, nil
}

// Failure records one story the batch could not process.
type Failure struct {
	StoryID string
	Err     error
}

// BatchOutcome summarizes a best-effort batch run.
type BatchOutcome struct {
	Attempted int
	Succeeded []Outcome
	Failed    []Failure
}

// Summary returns a one-line account of the batch.
func (b BatchOutcome) Summary() string {
	return fmt.Sprintf("%d/%d stories processed, %d failed",
		len(b.Succeeded), b.Attempted, len(b.Failed))
}

// ProcessAll runs stories in order. One failing story is recorded and
// skipped; the batch keeps going.
func (p *Processor) ProcessAll(ctx context.Context, stories []reddit.Story) BatchOutcome {
	outcome := BatchOutcome{Attempted: len(stories)}

	for i, story := range stories {
		fmt.Fprintf(p.log, "[%d/%d] processing %s\n", i+1, len(stories), story)

		res, err := p.Process(ctx, story)
		if err != nil {
			fmt.Fprintf(p.log, "failed %s: %v\n", story.ID, err)
			outcome.Failed = append(outcome.Failed, Failure{StoryID: story.ID, Err: err})
			continue
		}
		outcome.Succeeded = append(outcome.Succeeded, res)
	}
	return outcome
}

// saveScript writes the paraphrased script for later reference.
func saveScript(path, script string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(script+"\n"), 0600)
}
