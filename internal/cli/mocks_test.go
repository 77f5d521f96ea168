package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/pipeline"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/reddit"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/render"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/rewrite"
)

// Shared fakes for CLI command tests. Commands only see the Env interfaces,
// so every external effect is observable through these.

type fakeConfigLoader struct {
	cfg     config.Config
	err     error
	gotPath string
}

func (f *fakeConfigLoader) Load(path string) (config.Config, error) {
	f.gotPath = path
	return f.cfg, f.err
}

type fakeFetcher struct {
	connErr  error
	posts    map[string][]reddit.Story
	postsErr error
	byID     map[string]reddit.Story
	byIDErr  error

	gotSubreddits []string
	gotOpts       reddit.ListingOptions
}

func (f *fakeFetcher) TestConnection(context.Context) error { return f.connErr }

func (f *fakeFetcher) FetchPosts(_ context.Context, subreddit string, opts reddit.ListingOptions) ([]reddit.Story, error) {
	f.gotSubreddits = append(f.gotSubreddits, subreddit)
	f.gotOpts = opts
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	return f.posts[subreddit], nil
}

func (f *fakeFetcher) FetchPostByID(_ context.Context, postID string) (reddit.Story, error) {
	if f.byIDErr != nil {
		return reddit.Story{}, f.byIDErr
	}
	s, ok := f.byID[postID]
	if !ok {
		return reddit.Story{}, fmt.Errorf("%w: %s", reddit.ErrPostNotFound, postID)
	}
	return s, nil
}

func (f *fakeFetcher) FetchMultiple(ctx context.Context, subreddits []string, _ int, opts reddit.ListingOptions, _ io.Writer) []reddit.Story {
	var all []reddit.Story
	for _, sub := range subreddits {
		stories, err := f.FetchPosts(ctx, sub, opts)
		if err != nil {
			continue
		}
		all = append(all, stories...)
	}
	return all
}

type fakeClientFactory struct {
	fetcher *fakeFetcher
	err     error

	gotID, gotSecret, gotUA string
}

func (f *fakeClientFactory) NewClient(clientID, clientSecret, userAgent string) (StoryFetcher, error) {
	f.gotID, f.gotSecret, f.gotUA = clientID, clientSecret, userAgent
	if f.err != nil {
		return nil, f.err
	}
	return f.fetcher, nil
}

type fakeProcessor struct {
	failIDs   map[string]bool
	processed []string
}

func (f *fakeProcessor) Process(_ context.Context, s reddit.Story) (pipeline.Outcome, error) {
	f.processed = append(f.processed, s.ID)
	if f.failIDs[s.ID] {
		return pipeline.Outcome{}, fmt.Errorf("render exploded for %s", s.ID)
	}
	s.RewrittenText = "rewritten"
	s.Processed = true
	return pipeline.Outcome{
		Story:  s,
		Paths:  pipeline.OutputPaths("out", s.ID),
		Result: render.Result{VideoID: "vid-" + s.ID, Duration: 12.5},
	}, nil
}

func (f *fakeProcessor) ProcessAll(ctx context.Context, stories []reddit.Story) pipeline.BatchOutcome {
	outcome := pipeline.BatchOutcome{Attempted: len(stories)}
	for _, s := range stories {
		res, err := f.Process(ctx, s)
		if err != nil {
			outcome.Failed = append(outcome.Failed, pipeline.Failure{StoryID: s.ID, Err: err})
			continue
		}
		outcome.Succeeded = append(outcome.Succeeded, res)
	}
	return outcome
}

type fakeProcessorFactory struct {
	proc *fakeProcessor
}

func (f *fakeProcessorFactory) NewProcessor(config.Config, io.Writer) StoryProcessor {
	return f.proc
}

type fakeRewriter struct {
	script string
	err    error
	gotIn  string
}

func (f *fakeRewriter) Rewrite(_ context.Context, original string, _ int) (string, error) {
	f.gotIn = original
	return f.script, f.err
}

type fakeRewriterFactory struct {
	rewriter *fakeRewriter
}

func (f *fakeRewriterFactory) NewRewriter(config.Config, io.Writer) rewrite.Rewriter {
	return f.rewriter
}

type fakeToolChecker struct {
	tools map[string]string
}

func (f *fakeToolChecker) LookPath(name string) (string, error) {
	if path, ok := f.tools[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%s not found in PATH", name)
}

func (f *fakeToolChecker) FFmpeg() (string, error) {
	return f.LookPath("ffmpeg")
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

// testDeps bundles the fakes wired into a test Env.
type testDeps struct {
	env     *Env
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	loader  *fakeConfigLoader
	fetcher *fakeFetcher
	proc    *fakeProcessor
}

// testConfig returns a config with fake credentials and an isolated
// output directory.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Reddit.ClientID = "id"
	cfg.Reddit.ClientSecret = "secret"
	cfg.Video.OutputDirectory = t.TempDir()
	return cfg
}

// testEnv builds an Env backed entirely by fakes.
func testEnv(t *testing.T, cfg config.Config) *testDeps {
	t.Helper()

	d := &testDeps{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		loader:  &fakeConfigLoader{cfg: cfg},
		fetcher: &fakeFetcher{},
		proc:    &fakeProcessor{},
	}
	d.env = NewEnv(
		WithStdout(d.stdout),
		WithStderr(d.stderr),
		WithGetenv(func(string) string { return "" }),
		WithNow(func() time.Time { return time.Unix(1700000000, 0) }),
		WithConfigLoader(d.loader),
		WithClientFactory(&fakeClientFactory{fetcher: d.fetcher}),
		WithProcessorFactory(&fakeProcessorFactory{proc: d.proc}),
		WithRewriterFactory(&fakeRewriterFactory{rewriter: &fakeRewriter{script: "script"}}),
		WithToolChecker(&fakeToolChecker{tools: map[string]string{
			"ffmpeg": "/usr/bin/ffmpeg",
			"espeak": "/usr/bin/espeak",
		}}),
	)
	return d
}

// longStory returns a story long enough to pass default filtering.
func longStory(id string) reddit.Story {
	return reddit.Story{
		ID:           id,
		Subreddit:    "AmItheAsshole",
		Title:        "Story " + id,
		OriginalText: strings.Repeat("something happened and then something else. ", 20),
	}
}
