package tts

import "errors"

var (
	// ErrEmptyText indicates there was no text to synthesize.
	ErrEmptyText = errors.New("text to synthesize is empty")

	// ErrNoSpeechTool indicates no local speech synthesizer is installed.
	ErrNoSpeechTool = errors.New("no speech synthesizer found")

	// ErrSynthesisFailed indicates the synthesizer ran but produced no
	// usable audio.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)
