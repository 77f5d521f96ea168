package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnv(string) string { return "" }

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_DefaultsForAbsentKeys(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `subreddits = ["tifu"]`)
	cfg, err := config.Load(path, config.WithGetenv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Subreddits) != 1 || cfg.Subreddits[0] != "tifu" {
		t.Errorf("Subreddits = %v", cfg.Subreddits)
	}
	if cfg.Reddit.SortMode != "top" || cfg.Reddit.FetchLimit != 25 {
		t.Errorf("Reddit defaults = %+v", cfg.Reddit)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 || cfg.Video.CRF != 23 {
		t.Errorf("Video defaults = %+v", cfg.Video)
	}
	if !cfg.Subtitles.Enabled || cfg.Subtitles.WordsPerSegment != 4 || cfg.Subtitles.MaxCharsPerLine != 35 {
		t.Errorf("Subtitles defaults = %+v", cfg.Subtitles)
	}
	if cfg.Rewriter.TargetWordCount != 200 {
		t.Errorf("Rewriter defaults = %+v", cfg.Rewriter)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `
subreddits = ["confession", "tifu"]

[reddit]
sort_mode = "hot"
fetch_limit = 50

[filtering]
min_story_length = 200
allow_nsfw = true
banned_keywords = ["politics"]

[video]
width = 720
height = 1280
output_directory = "/tmp/out"

[subtitles]
enabled = false
font_size = 64

[rewriter]
provider = "openai"
`)

	cfg, err := config.Load(path, config.WithGetenv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Reddit.SortMode != "hot" || cfg.Reddit.FetchLimit != 50 {
		t.Errorf("Reddit = %+v", cfg.Reddit)
	}
	if !cfg.Filtering.AllowNSFW || cfg.Filtering.MinStoryLength != 200 {
		t.Errorf("Filtering = %+v", cfg.Filtering)
	}
	if len(cfg.Filtering.BannedKeywords) != 1 {
		t.Errorf("BannedKeywords = %v", cfg.Filtering.BannedKeywords)
	}
	if cfg.Video.Width != 720 || cfg.Video.OutputDirectory != "/tmp/out" {
		t.Errorf("Video = %+v", cfg.Video)
	}
	if cfg.Subtitles.Enabled || cfg.Subtitles.FontSize != 64 {
		t.Errorf("Subtitles = %+v", cfg.Subtitles)
	}
	// Untouched sections keep defaults.
	if cfg.Video.FPS != 30 || cfg.Subtitles.FontName != "Arial" {
		t.Errorf("unrelated defaults lost: %+v %+v", cfg.Video, cfg.Subtitles)
	}
	if cfg.Rewriter.Provider != "openai" {
		t.Errorf("Rewriter.Provider = %q", cfg.Rewriter.Provider)
	}
}

func TestLoad_SecretsFromEnvironment(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		config.EnvRedditClientID:     "rid",
		config.EnvRedditClientSecret: "rsecret",
		config.EnvRedditUserAgent:    "my-agent",
		config.EnvAnthropicAPIKey:    "akey",
		config.EnvOpenAIAPIKey:       "okey",
		config.EnvTTSAPIKey:          "tkey",
		config.EnvTTSAPIURL:          "https://tts.example.com",
	}
	path := writeConfig(t, t.TempDir(), "")

	cfg, err := config.Load(path, config.WithGetenv(func(k string) string { return env[k] }))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Reddit.ClientID != "rid" || cfg.Reddit.ClientSecret != "rsecret" || cfg.Reddit.UserAgent != "my-agent" {
		t.Errorf("Reddit secrets = %+v", cfg.Reddit)
	}
	if cfg.Rewriter.AnthropicAPIKey != "akey" || cfg.Rewriter.OpenAIAPIKey != "okey" {
		t.Errorf("Rewriter secrets = %+v", cfg.Rewriter)
	}
	if cfg.TTS.APIKey != "tkey" || cfg.TTS.APIURL != "https://tts.example.com" {
		t.Errorf("TTS secrets = %+v", cfg.TTS)
	}
}

func TestLoad_DefaultUserAgent(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "")
	cfg, err := config.Load(path, config.WithGetenv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Reddit.UserAgent == "" {
		t.Error("UserAgent is empty, want a default")
	}
}

func TestLoad_SearchesParentDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, `subreddits = ["found"]`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("", config.WithGetenv(noEnv), config.WithStartDir(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Subreddits) != 1 || cfg.Subreddits[0] != "found" {
		t.Errorf("Subreddits = %v, want config from grandparent", cfg.Subreddits)
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	_, err := config.Load("", config.WithGetenv(noEnv), config.WithStartDir(t.TempDir()))
	if !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"), config.WithGetenv(noEnv))
	if !errors.Is(err, config.ErrNotFound) {
		t.Fatalf("Load(missing path) error = %v, want ErrNotFound", err)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "subreddits = [unclosed")
	if _, err := config.Load(path, config.WithGetenv(noEnv)); err == nil {
		t.Fatal("Load() succeeded on malformed TOML")
	}
}

// ---------------------------------------------------------------------------
// EnsureDirectories
// ---------------------------------------------------------------------------

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Video.OutputDirectory = filepath.Join(t.TempDir(), "out")

	if err := config.EnsureDirectories(cfg); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, sub := range []string{config.AudioDir, config.VideoDir, config.ScriptsDir, config.SubtitlesDir} {
		dir := filepath.Join(cfg.Video.OutputDirectory, sub)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing: %v", dir, err)
		}
	}
}
