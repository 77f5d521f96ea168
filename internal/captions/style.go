package captions

import (
	"fmt"
	"strings"
)

// Style describes caption appearance for the burn-in filter. Colors are
// 6-hex-digit RGB strings without a leading '#'. Immutable value object,
// supplied once per render request.
type Style struct {
	FontName     string
	FontSize     int
	FontColor    string // RRGGBB
	OutlineColor string // RRGGBB
	OutlineWidth int
	MarginBottom int
}

// DefaultStyle returns the standard TikTok-style caption appearance:
// large white text with a black outline near the bottom of the frame.
func DefaultStyle() Style {
	return Style{
		FontName:     "Arial",
		FontSize:     48,
		FontColor:    "FFFFFF",
		OutlineColor: "000000",
		OutlineWidth: 3,
		MarginBottom: 150,
	}
}

// FilterArg builds the ffmpeg subtitles filter fragment that burns the SRT
// at srtPath into the video with this style. Captions are anchored
// bottom-center (Alignment=2); only the bottom margin is configurable.
//
// The ASS force_style format wants colors in BGR byte order, so the RGB
// inputs are reversed here.
func (s Style) FilterArg(srtPath string) string {
	style := fmt.Sprintf(
		"FontName=%s,FontSize=%d,PrimaryColour=&H00%s,OutlineColour=&H00%s,Outline=%d,Shadow=1,Alignment=2,MarginV=%d",
		s.FontName, s.FontSize,
		reverseHex(s.FontColor), reverseHex(s.OutlineColor),
		s.OutlineWidth, s.MarginBottom,
	)
	return fmt.Sprintf("subtitles='%s':force_style='%s'", escapeFilterPath(srtPath), style)
}

// escapeFilterPath escapes characters that collide with ffmpeg's
// filter-graph argument syntax.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, ":", "\\:")
	return strings.ReplaceAll(path, "'", "\\'")
}

// reverseHex converts an RRGGBB color to the BBGGRR byte order the ASS
// subtitle renderer expects. A leading '#' is stripped. Anything that is
// not exactly 6 characters afterwards is returned unchanged; hex digits
// are not validated.
func reverseHex(color string) string {
	color = strings.TrimPrefix(color, "#")
	if len(color) != 6 {
		return color
	}
	return color[4:6] + color[2:4] + color[0:2]
}
