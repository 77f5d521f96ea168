package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// API speaker configuration.
const (
	defaultAPIVoice   = "default"
	defaultAPIFormat  = "wav"
	defaultAPITimeout = 60 * time.Second

	// Response size limit for audio payloads (50MB).
	maxAudioResponseSize = 50 * 1024 * 1024
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Speaker = (*APISpeaker)(nil)

// APISpeaker synthesizes speech through an external HTTP API. The request
// shape is the generic {text, voice, format} POST used by hosted TTS
// services; the endpoint and key come from configuration, never from code.
type APISpeaker struct {
	apiKey     string
	apiURL     string
	voice      string
	format     string
	httpClient httpDoer
}

// APIOption configures an APISpeaker.
type APIOption func(*APISpeaker)

// WithAPIVoice selects the provider voice ID.
func WithAPIVoice(voice string) APIOption {
	return func(a *APISpeaker) { a.voice = voice }
}

// WithAPIHTTPClient sets a custom HTTP client (for testing).
func WithAPIHTTPClient(c httpDoer) APIOption {
	return func(a *APISpeaker) { a.httpClient = c }
}

// NewAPISpeaker creates an APISpeaker for the given endpoint.
func NewAPISpeaker(apiKey, apiURL string, opts ...APIOption) *APISpeaker {
	a := &APISpeaker{
		apiKey: apiKey,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		voice:  defaultAPIVoice,
		format: defaultAPIFormat,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: defaultAPITimeout}
	}
	return a
}

type synthesizeRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
}

// synthesizeEnvelope covers JSON responses that wrap base64 audio. Field
// names vary by provider, so several are tried.
type synthesizeEnvelope struct {
	Audio        string `json:"audio"`
	AudioContent string `json:"audioContent"`
	Data         string `json:"data"`
}

// Synthesize posts the text and writes the returned audio to outputPath.
// Both raw binary responses and base64 JSON envelopes are handled.
func (a *APISpeaker) Synthesize(ctx context.Context, text, outputPath string) (err error) {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, Voice: a.voice, Format: a.format})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL+"/synthesize", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "audio/"+a.format)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: API returned status %d: %s",
			ErrSynthesisFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	audio, err := extractAudio(resp.Header.Get("Content-Type"), respBody)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, audio, 0600); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

// extractAudio returns the audio bytes from a response body, decoding the
// base64 JSON envelope when the server sent one.
func extractAudio(contentType string, body []byte) ([]byte, error) {
	if !strings.Contains(contentType, "application/json") {
		return body, nil
	}

	var envelope synthesizeEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: unparseable JSON response", ErrSynthesisFailed)
	}

	encoded := envelope.Audio
	if encoded == "" {
		encoded = envelope.AudioContent
	}
	if encoded == "" {
		encoded = envelope.Data
	}
	if encoded == "" {
		return nil, fmt.Errorf("%w: no audio data in API response", ErrSynthesisFailed)
	}

	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 audio: %v", ErrSynthesisFailed, err)
	}
	return audio, nil
}
