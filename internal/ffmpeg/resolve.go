// Package ffmpeg locates and runs the external ffmpeg/ffprobe binaries and
// parses ffprobe's JSON output. All execution is synchronous; failures carry
// the tool's captured stderr.
package ffmpeg

import "fmt"

// Environment variables that override binary discovery.
const (
	envFFmpegPath  = "FFMPEG_PATH"
	envFFprobePath = "FFPROBE_PATH"
)

// Resolver finds the ffmpeg and ffprobe binaries.
type Resolver struct {
	env envProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider (for testing).
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FFmpeg resolves the ffmpeg binary: FFMPEG_PATH if set, else system PATH.
// Returns ErrToolNotFound with an install hint when neither works.
func (r *Resolver) FFmpeg() (string, error) {
	return r.resolve("ffmpeg", envFFmpegPath)
}

// FFprobe resolves the ffprobe binary: FFPROBE_PATH if set, else system PATH.
func (r *Resolver) FFprobe() (string, error) {
	return r.resolve("ffprobe", envFFprobePath)
}

func (r *Resolver) resolve(binary, envKey string) (string, error) {
	if envPath := r.env.Getenv(envKey); envPath != "" {
		return envPath, nil
	}
	path, err := r.env.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not on PATH (install it, e.g. 'brew install ffmpeg' or 'apt install ffmpeg', or set %s)",
			ErrToolNotFound, binary, envKey)
	}
	return path, nil
}
