// Package config loads application settings from a TOML file plus
// environment variables. Secrets (API keys, Reddit credentials) come
// exclusively from the environment and never appear in the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file searched for when no explicit path
// is given.
const FileName = "config.toml"

// Environment variables holding secrets.
const (
	EnvRedditClientID     = "REDDIT_CLIENT_ID"
	EnvRedditClientSecret = "REDDIT_CLIENT_SECRET"
	EnvRedditUserAgent    = "REDDIT_USER_AGENT"
	EnvAnthropicAPIKey    = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey       = "OPENAI_API_KEY"
	EnvTTSAPIKey          = "TTS_API_KEY"
	EnvTTSAPIURL          = "TTS_API_URL"
)

// ErrNotFound indicates no config file was found.
var ErrNotFound = errors.New("configuration file not found")

// Reddit holds fetch settings. Credentials are filled from the environment.
type Reddit struct {
	ClientID     string `toml:"-"`
	ClientSecret string `toml:"-"`
	UserAgent    string `toml:"-"`
	SortMode     string `toml:"sort_mode"`
	TimeFilter   string `toml:"time_filter"`
	FetchLimit   int    `toml:"fetch_limit"`
}

// Filtering holds story selection criteria.
type Filtering struct {
	MinStoryLength int      `toml:"min_story_length"`
	MaxStoryLength int      `toml:"max_story_length"`
	AllowNSFW      bool     `toml:"allow_nsfw"`
	BannedKeywords []string `toml:"banned_keywords"`
}

// Video holds render settings.
type Video struct {
	BackgroundVideoPath string `toml:"background_video_path"`
	OutputDirectory     string `toml:"output_directory"`
	Width               int    `toml:"width"`
	Height              int    `toml:"height"`
	FPS                 int    `toml:"fps"`
	VideoCodec          string `toml:"video_codec"`
	AudioCodec          string `toml:"audio_codec"`
	CRF                 int    `toml:"crf"`
}

// TTS holds speech synthesis settings. APIKey and APIURL come from the
// environment.
type TTS struct {
	Provider string `toml:"provider"`
	Voice    string `toml:"voice"`
	Rate     int    `toml:"rate"`
	APIKey   string `toml:"-"`
	APIURL   string `toml:"-"`
}

// Rewriter holds paraphrasing settings. API keys come from the environment.
type Rewriter struct {
	Provider        string `toml:"provider"`
	TargetWordCount int    `toml:"target_word_count"`
	AnthropicModel  string `toml:"anthropic_model"`
	OpenAIModel     string `toml:"openai_model"`
	AnthropicAPIKey string `toml:"-"`
	OpenAIAPIKey    string `toml:"-"`
}

// Subtitles holds caption styling and segmentation settings.
type Subtitles struct {
	Enabled         bool   `toml:"enabled"`
	FontName        string `toml:"font_name"`
	FontSize        int    `toml:"font_size"`
	FontColor       string `toml:"font_color"`
	OutlineColor    string `toml:"outline_color"`
	OutlineWidth    int    `toml:"outline_width"`
	MarginBottom    int    `toml:"margin_bottom"`
	MaxCharsPerLine int    `toml:"max_chars_per_line"`
	WordsPerSegment int    `toml:"words_per_segment"`
}

// Config is the full application configuration.
type Config struct {
	Subreddits []string  `toml:"subreddits"`
	Reddit     Reddit    `toml:"reddit"`
	Filtering  Filtering `toml:"filtering"`
	Video      Video     `toml:"video"`
	TTS        TTS       `toml:"tts"`
	Rewriter   Rewriter  `toml:"rewriter"`
	Subtitles  Subtitles `toml:"subtitles"`
}

// Default returns the configuration used when keys are absent from the file.
func Default() Config {
	return Config{
		Subreddits: []string{"AmItheAsshole"},
		Reddit: Reddit{
			SortMode:   "top",
			TimeFilter: "week",
			FetchLimit: 25,
		},
		Filtering: Filtering{
			MinStoryLength: 500,
			MaxStoryLength: 5000,
		},
		Video: Video{
			BackgroundVideoPath: "assets/background.mp4",
			OutputDirectory:     "output",
			Width:               1080,
			Height:              1920,
			FPS:                 30,
			VideoCodec:          "libx264",
			AudioCodec:          "aac",
			CRF:                 23,
		},
		TTS: TTS{
			Provider: "local",
		},
		Rewriter: Rewriter{
			Provider:        "anthropic",
			TargetWordCount: 200,
			AnthropicModel:  "claude-3-haiku-20240307",
			OpenAIModel:     "gpt-3.5-turbo",
		},
		Subtitles: Subtitles{
			Enabled:         true,
			FontName:        "Arial",
			FontSize:        48,
			FontColor:       "FFFFFF",
			OutlineColor:    "000000",
			OutlineWidth:    3,
			MarginBottom:    150,
			MaxCharsPerLine: 35,
			WordsPerSegment: 4,
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loader)

type loader struct {
	getenv   func(string) string
	startDir string
}

// WithGetenv sets the environment lookup (for testing).
func WithGetenv(fn func(string) string) LoadOption {
	return func(l *loader) { l.getenv = fn }
}

// WithStartDir sets the directory the config file search starts from
// (for testing). Default is the working directory.
func WithStartDir(dir string) LoadOption {
	return func(l *loader) { l.startDir = dir }
}

// Load reads the TOML file at path, or searches for config.toml in the
// working directory and up to two parents when path is empty. Values absent
// from the file keep their defaults; secrets are then overlaid from the
// environment.
func Load(path string, opts ...LoadOption) (Config, error) {
	l := loader{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&l)
	}

	if path == "" {
		found, err := l.findFile()
		if err != nil {
			return Config{}, err
		}
		path = found
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv(l.getenv)
	return cfg, nil
}

// findFile searches startDir and up to two parent directories.
func (l loader) findFile() (string, error) {
	start := l.startDir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("cannot determine working directory: %w", err)
		}
		start = wd
	}

	dir := start
	for i := 0; i < 3; i++ {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: create %s or pass --config", ErrNotFound, FileName)
}

// applyEnv overlays secrets from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	c.Reddit.ClientID = getenv(EnvRedditClientID)
	c.Reddit.ClientSecret = getenv(EnvRedditClientSecret)
	c.Reddit.UserAgent = getenv(EnvRedditUserAgent)
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "automated-tiktok-poster/1.0 (by /u/YourUsername)"
	}

	c.Rewriter.AnthropicAPIKey = getenv(EnvAnthropicAPIKey)
	c.Rewriter.OpenAIAPIKey = getenv(EnvOpenAIAPIKey)

	c.TTS.APIKey = getenv(EnvTTSAPIKey)
	c.TTS.APIURL = getenv(EnvTTSAPIURL)
}

// Output subdirectories created by EnsureDirectories.
const (
	AudioDir     = "audio"
	VideoDir     = "video"
	ScriptsDir   = "scripts"
	SubtitlesDir = "subtitles"
)

// EnsureDirectories creates the output directory tree.
func EnsureDirectories(c Config) error {
	for _, sub := range []string{"", AudioDir, VideoDir, ScriptsDir, SubtitlesDir} {
		dir := filepath.Join(c.Video.OutputDirectory, sub)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
