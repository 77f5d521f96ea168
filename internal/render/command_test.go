package render_test

import (
	"strings"
	"testing"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/captions"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/render"
)

// ---------------------------------------------------------------------------
// Command - argument vector construction
// ---------------------------------------------------------------------------

func TestCommand_WithoutSubtitles(t *testing.T) {
	t.Parallel()

	req := render.Request{
		BackgroundPath: "assets/parkour.mp4",
		AudioPath:      "out/audio/story_abc.wav",
		OutputPath:     "out/video/story_abc.mp4",
	}

	got := render.Command(req, 37.5, "")

	want := []string{
		"-y",
		"-stream_loop", "-1",
		"-i", "assets/parkour.mp4",
		"-i", "out/audio/story_abc.wav",
		"-t", "37.5",
		"-filter_complex", "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920",
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "192k",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-shortest",
		"out/video/story_abc.mp4",
	}
	if strings.Join(got, "\x00") != strings.Join(want, "\x00") {
		t.Errorf("Command() =\n%v\nwant\n%v", got, want)
	}
}

func TestCommand_WithSubtitles(t *testing.T) {
	t.Parallel()

	req := render.Request{
		BackgroundPath: "bg.mp4",
		AudioPath:      "voice.wav",
		OutputPath:     "final.mp4",
	}
	filter := render.SubtitleFilter(captions.DefaultStyle(), "final.srt")

	got := render.Command(req, 10, filter)

	var filterComplex string
	for i, arg := range got {
		if arg == "-filter_complex" && i+1 < len(got) {
			filterComplex = got[i+1]
		}
	}

	wantPrefix := "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,subtitles='final.srt'"
	if !strings.HasPrefix(filterComplex, wantPrefix) {
		t.Errorf("filter_complex = %q, want scale/crop chained with subtitles", filterComplex)
	}
}

func TestCommand_CustomProfile(t *testing.T) {
	t.Parallel()

	req := render.Request{
		BackgroundPath: "bg.mp4",
		AudioPath:      "voice.wav",
		OutputPath:     "final.mp4",
		Width:          720,
		Height:         1280,
		FPS:            24,
		VideoCodec:     "libx265",
		AudioCodec:     "libopus",
		CRF:            28,
	}

	got := strings.Join(render.Command(req, 5, ""), " ")

	for _, want := range []string{
		"scale=720:1280:force_original_aspect_ratio=increase,crop=720:1280",
		"-c:v libx265",
		"-crf 28",
		"-c:a libopus",
		"-r 24",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Command() = %q, missing %q", got, want)
		}
	}
}

func TestCommand_Deterministic(t *testing.T) {
	t.Parallel()

	req := render.Request{BackgroundPath: "a", AudioPath: "b", OutputPath: "c"}
	first := render.Command(req, 12.25, "")
	second := render.Command(req, 12.25, "")

	if strings.Join(first, " ") != strings.Join(second, " ") {
		t.Error("Command() is not deterministic for identical inputs")
	}
}

func TestSubtitleFilter_EmptyPath(t *testing.T) {
	t.Parallel()

	if got := render.SubtitleFilter(captions.DefaultStyle(), ""); got != "" {
		t.Errorf("SubtitleFilter(_, \"\") = %q, want empty", got)
	}
}
