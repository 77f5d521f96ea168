package tts

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Silent WAV parameters, matching the canonical output profile.
const (
	dummySampleRate    = 44100
	dummyBitsPerSample = 16
	dummyChannels      = 1

	// minDummySeconds keeps renders from degenerating on one-word scripts.
	minDummySeconds = 1.0
)

// Compile-time interface compliance check.
var _ Speaker = (*DummySpeaker)(nil)

// DummySpeaker writes a silent WAV file whose length matches the estimated
// narration time. It exists so the rest of the pipeline can run end to end
// without any speech tooling installed.
type DummySpeaker struct {
	wordsPerMinute int
}

// DummyOption configures a DummySpeaker.
type DummyOption func(*DummySpeaker)

// WithDummyPace sets the assumed words-per-minute pace for sizing.
func WithDummyPace(wpm int) DummyOption {
	return func(d *DummySpeaker) {
		if wpm > 0 {
			d.wordsPerMinute = wpm
		}
	}
}

// NewDummySpeaker creates a DummySpeaker.
func NewDummySpeaker(opts ...DummyOption) *DummySpeaker {
	d := &DummySpeaker{wordsPerMinute: DefaultWordsPerMinute}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Synthesize writes the silent track.
func (d *DummySpeaker) Synthesize(_ context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}

	seconds := EstimateDuration(text, d.wordsPerMinute)
	if seconds < minDummySeconds {
		seconds = minDummySeconds
	}

	if err := os.WriteFile(outputPath, silentWAV(seconds), 0600); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

// silentWAV builds a canonical-format PCM WAV of zero samples.
func silentWAV(seconds float64) []byte {
	samples := int(seconds * dummySampleRate)
	dataSize := samples * dummyChannels * dummyBitsPerSample / 8
	byteRate := dummySampleRate * dummyChannels * dummyBitsPerSample / 8
	blockAlign := dummyChannels * dummyBitsPerSample / 8

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(buf[22:24], dummyChannels)
	binary.LittleEndian.PutUint32(buf[24:28], dummySampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], dummyBitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	// Sample area is already zeroed: silence.
	return buf
}
