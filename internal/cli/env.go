package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/ffmpeg"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/pipeline"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/rewrite"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	ClientFactory    ClientFactory
	ProcessorFactory ProcessorFactory
	RewriterFactory  RewriterFactory
	ToolChecker      ToolChecker
}

// ConfigLoader loads application configuration.
type ConfigLoader interface {
	Load(path string) (config.Config, error)
}

// StoryFetcher fetches stories from Reddit.
type StoryFetcher interface {
	TestConnection(ctx context.Context) error
	FetchPosts(ctx context.Context, subreddit string, opts reddit.ListingOptions) ([]reddit.Story, error)
	FetchPostByID(ctx context.Context, postID string) (reddit.Story, error)
	FetchMultiple(ctx context.Context, subreddits []string, perSubreddit int, opts reddit.ListingOptions, log io.Writer) []reddit.Story
}

// ClientFactory creates Reddit clients from credentials.
type ClientFactory interface {
	NewClient(clientID, clientSecret, userAgent string) (StoryFetcher, error)
}

// StoryProcessor runs stories through the full story-to-video pipeline.
type StoryProcessor interface {
	Process(ctx context.Context, s reddit.Story) (pipeline.Outcome, error)
	ProcessAll(ctx context.Context, stories []reddit.Story) pipeline.BatchOutcome
}

// ProcessorFactory creates story processors from configuration.
type ProcessorFactory interface {
	NewProcessor(cfg config.Config, log io.Writer) StoryProcessor
}

// RewriterFactory creates story rewriters from configuration.
type RewriterFactory interface {
	NewRewriter(cfg config.Config, log io.Writer) rewrite.Rewriter
}

// ToolChecker locates external tools needed by the pipeline.
type ToolChecker interface {
	LookPath(name string) (string, error)
	FFmpeg() (string, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClientFactory sets the Reddit client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.ClientFactory = f
	}
}

// WithProcessorFactory sets the story processor factory.
func WithProcessorFactory(f ProcessorFactory) EnvOption {
	return func(e *Env) {
		e.ProcessorFactory = f
	}
}

// WithRewriterFactory sets the rewriter factory.
func WithRewriterFactory(f RewriterFactory) EnvOption {
	return func(e *Env) {
		e.RewriterFactory = f
	}
}

// WithToolChecker sets the tool checker.
func WithToolChecker(c ToolChecker) EnvOption {
	return func(e *Env) {
		e.ToolChecker = c
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     &defaultConfigLoader{},
		ClientFactory:    &defaultClientFactory{},
		ProcessorFactory: &defaultProcessorFactory{},
		RewriterFactory:  &defaultRewriterFactory{},
		ToolChecker:      &defaultToolChecker{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(path string) (config.Config, error) {
	return config.Load(path)
}

// defaultClientFactory implements ClientFactory using the reddit package.
type defaultClientFactory struct{}

func (defaultClientFactory) NewClient(clientID, clientSecret, userAgent string) (StoryFetcher, error) {
	return reddit.NewClient(clientID, clientSecret, userAgent)
}

// defaultProcessorFactory implements ProcessorFactory using the pipeline package.
type defaultProcessorFactory struct{}

func (defaultProcessorFactory) NewProcessor(cfg config.Config, log io.Writer) StoryProcessor {
	return pipeline.NewProcessor(cfg, pipeline.WithLog(log))
}

// defaultRewriterFactory implements RewriterFactory using the rewrite package.
type defaultRewriterFactory struct{}

func (defaultRewriterFactory) NewRewriter(cfg config.Config, log io.Writer) rewrite.Rewriter {
	return rewrite.New(rewrite.Settings{
		Provider:        cfg.Rewriter.Provider,
		AnthropicAPIKey: cfg.Rewriter.AnthropicAPIKey,
		AnthropicModel:  cfg.Rewriter.AnthropicModel,
		OpenAIAPIKey:    cfg.Rewriter.OpenAIAPIKey,
		OpenAIModel:     cfg.Rewriter.OpenAIModel,
		Log:             log,
	})
}

// defaultToolChecker implements ToolChecker using exec and the ffmpeg package.
type defaultToolChecker struct{}

func (defaultToolChecker) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (defaultToolChecker) FFmpeg() (string, error) {
	return ffmpeg.NewResolver().FFmpeg()
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ ClientFactory    = (*defaultClientFactory)(nil)
	_ ProcessorFactory = (*defaultProcessorFactory)(nil)
	_ RewriterFactory  = (*defaultRewriterFactory)(nil)
	_ ToolChecker      = (*defaultToolChecker)(nil)
	_ StoryFetcher     = (*reddit.Client)(nil)
	_ StoryProcessor   = (*pipeline.Processor)(nil)
)
