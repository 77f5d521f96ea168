package tts_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/tts"
)

// ---------------------------------------------------------------------------
// APISpeaker
// ---------------------------------------------------------------------------

func TestAPISynthesize_BinaryResponse(t *testing.T) {
	t.Parallel()

	var gotAuth, gotAccept string
	var gotReq map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFF-audio-bytes"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "audio", "story.wav")
	a := tts.NewAPISpeaker("secret-key", srv.URL, tts.WithAPIVoice("nova"))

	if err := a.Synthesize(context.Background(), "hello world", out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "RIFF-audio-bytes" {
		t.Errorf("output = %q", data)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "audio/wav" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotReq["text"] != "hello world" || gotReq["voice"] != "nova" || gotReq["format"] != "wav" {
		t.Errorf("request payload = %v", gotReq)
	}
}

func TestAPISynthesize_Base64Envelope(t *testing.T) {
	t.Parallel()

	audio := []byte("decoded-audio")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"audioContent": %q}`, base64.StdEncoding.EncodeToString(audio))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "story.wav")
	a := tts.NewAPISpeaker("k", srv.URL)

	if err := a.Synthesize(context.Background(), "hello", out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(audio) {
		t.Errorf("output = %q, want decoded audio", data)
	}
}

func TestAPISynthesize_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream busy"))
	}))
	defer srv.Close()

	a := tts.NewAPISpeaker("k", srv.URL)
	err := a.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Fatalf("Synthesize() error = %v, want ErrSynthesisFailed", err)
	}
}

func TestAPISynthesize_EnvelopeWithoutAudio(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	a := tts.NewAPISpeaker("k", srv.URL)
	err := a.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "a.wav"))
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Fatalf("Synthesize() error = %v, want ErrSynthesisFailed", err)
	}
}

func TestAPISynthesize_EmptyText(t *testing.T) {
	t.Parallel()

	a := tts.NewAPISpeaker("k", "http://unused.invalid")
	if err := a.Synthesize(context.Background(), "", "a.wav"); !errors.Is(err, tts.ErrEmptyText) {
		t.Fatalf("Synthesize() error = %v, want ErrEmptyText", err)
	}
}
