package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/captions"
)

// Command assembles the full ffmpeg argument list for a render request.
// Pure and deterministic: the same inputs always produce the same argument
// vector. duration is the measured narration length in seconds; srtFilter is
// the burn-in filter fragment, or empty when captions are disabled.
//
// The background (input 0) loops indefinitely and supplies video; the
// narration (input 1) supplies audio. Output duration is clamped to the
// narration, with -shortest as a defensive backstop.
func Command(req Request, duration float64, srtFilter string) []string {
	req = req.withDefaults()

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
			req.Width, req.Height, req.Width, req.Height),
	}
	if srtFilter != "" {
		filters = append(filters, srtFilter)
	}

	return []string{
		"-y",
		"-stream_loop", "-1",
		"-i", req.BackgroundPath,
		"-i", req.AudioPath,
		"-t", strconv.FormatFloat(duration, 'f', -1, 64),
		"-filter_complex", strings.Join(filters, ","),
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", req.VideoCodec,
		"-preset", encodePreset,
		"-crf", strconv.Itoa(req.CRF),
		"-c:a", req.AudioCodec,
		"-b:a", audioBitrate,
		"-r", strconv.Itoa(req.FPS),
		"-pix_fmt", pixelFormat,
		"-shortest",
		req.OutputPath,
	}
}

// SubtitleFilter returns the burn-in filter for a serialized caption track,
// or empty when srtPath is empty.
func SubtitleFilter(style captions.Style, srtPath string) string {
	if srtPath == "" {
		return ""
	}
	return style.FilterArg(srtPath)
}
