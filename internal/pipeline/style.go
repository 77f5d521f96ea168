package pipeline

import (
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/captions"
	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/config"
)

// styleFromConfig maps subtitle settings onto a caption style, keeping
// defaults for unset values.
func styleFromConfig(s config.Subtitles) captions.Style {
	style := captions.DefaultStyle()
	if s.FontName != "" {
		style.FontName = s.FontName
	}
	if s.FontSize > 0 {
		style.FontSize = s.FontSize
	}
	if s.FontColor != "" {
		style.FontColor = s.FontColor
	}
	if s.OutlineColor != "" {
		style.OutlineColor = s.OutlineColor
	}
	if s.OutlineWidth > 0 {
		style.OutlineWidth = s.OutlineWidth
	}
	if s.MarginBottom > 0 {
		style.MarginBottom = s.MarginBottom
	}
	return style
}

// segmenterFromConfig builds the caption segmenter from subtitle settings.
func segmenterFromConfig(s config.Subtitles) *captions.Segmenter {
	var opts []captions.SegmenterOption
	if s.WordsPerSegment > 0 {
		opts = append(opts, captions.WithWordsPerCaption(s.WordsPerSegment))
	}
	if s.MaxCharsPerLine > 0 {
		opts = append(opts, captions.WithMaxLineChars(s.MaxCharsPerLine))
	}
	return captions.NewSegmenter(opts...)
}
