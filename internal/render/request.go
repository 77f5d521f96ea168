// Package render builds ffmpeg commands for vertical short-form videos and
// drives the render: background footage looped under narration audio, scaled
// and cropped to the target aspect ratio, with optional burned-in captions.
package render

import (
	"fmt"
	"time"
)

// Output defaults for 9:16 vertical video.
const (
	DefaultWidth      = 1080
	DefaultHeight     = 1920
	DefaultFPS        = 30
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultCRF        = 23

	// audioBitrate and pixelFormat are fixed for broad player compatibility.
	audioBitrate = "192k"
	pixelFormat  = "yuv420p"

	// encodePreset balances speed and quality; not configurable.
	encodePreset = "medium"
)

// Request holds the inputs for one video build. It exists only for the
// duration of the build call and is never persisted.
type Request struct {
	BackgroundPath string
	AudioPath      string
	OutputPath     string

	// SubtitleText is the narration script; when non-empty and captions are
	// enabled, it is segmented into a burned-in caption track.
	SubtitleText string

	Width      int
	Height     int
	FPS        int
	VideoCodec string
	AudioCodec string
	CRF        int
}

// withDefaults fills zero-valued fields with the standard vertical profile.
func (r Request) withDefaults() Request {
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if r.FPS == 0 {
		r.FPS = DefaultFPS
	}
	if r.VideoCodec == "" {
		r.VideoCodec = DefaultVideoCodec
	}
	if r.AudioCodec == "" {
		r.AudioCodec = DefaultAudioCodec
	}
	if r.CRF == 0 {
		r.CRF = DefaultCRF
	}
	return r
}

// Result describes one successfully rendered video.
type Result struct {
	VideoID      string
	VideoPath    string
	AudioPath    string
	SubtitlePath string // empty when captions were disabled or no text given
	Duration     float64
	SizeBytes    int64
	GeneratedAt  time.Time
}

// String returns a compact representation for logging.
func (r Result) String() string {
	return fmt.Sprintf("video %s: %.1fs, %d bytes", r.VideoID, r.Duration, r.SizeBytes)
}
