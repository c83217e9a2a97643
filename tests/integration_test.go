package tests

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voice-companion/internal/application"
	"voice-companion/internal/domain"
	"voice-companion/internal/infra/gemini"
	"voice-companion/internal/infra/markdown"
	"voice-companion/internal/infra/openai"
)

type fixedRecorder struct {
	payload []byte
}

func (f *fixedRecorder) Start(_ context.Context) error { return nil }
func (f *fixedRecorder) Stop() ([]byte, error)         { return f.payload, nil }
func (f *fixedRecorder) Name() string                  { return "fixed" }

func newWhisperServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
}

func newGeminiServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))
}

func TestFullCycle_AudioToRenderedResponse(t *testing.T) {
	whisper := newWhisperServer(t, "I feel anxious about work.")
	defer whisper.Close()
	llm := newGeminiServer(t, "## One step at a time\n\nThat sounds *heavy*. Try a short walk.")
	defer llm.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := application.NewSessionController(
		&fixedRecorder{},
		openai.NewWhisperClientWithURL("key", "en", whisper.URL),
		gemini.NewClientWithURL("key", "model", llm.URL),
		markdown.NewRenderer(),
		&application.NoopSink{},
		100,
		logger,
	)

	if err := controller.Submit(context.Background(), []byte("wav bytes")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := controller.Snapshot()
	if snap.Status != domain.StatusIdle {
		t.Errorf("status: got %s, want idle", snap.Status)
	}
	if snap.Transcript != "I feel anxious about work." {
		t.Errorf("transcript: got %q", snap.Transcript)
	}
	if !strings.Contains(snap.ResponseHTML, "<h2>One step at a time</h2>") {
		t.Errorf("rendered html: got %q", snap.ResponseHTML)
	}
	if !strings.Contains(snap.ResponseHTML, "<em>heavy</em>") {
		t.Errorf("rendered html: got %q", snap.ResponseHTML)
	}
	if snap.Error != "" {
		t.Errorf("error: got %q", snap.Error)
	}
}

func TestFullCycle_TranscriptionOutage(t *testing.T) {
	whisper := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer whisper.Close()
	llm := newGeminiServer(t, "never used")
	defer llm.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := application.NewSessionController(
		&fixedRecorder{},
		openai.NewWhisperClientWithURL("key", "", whisper.URL),
		gemini.NewClientWithURL("key", "", llm.URL),
		markdown.NewRenderer(),
		&application.NoopSink{},
		100,
		logger,
	)

	_ = controller.Submit(context.Background(), []byte("wav bytes"))

	snap := controller.Snapshot()
	if snap.Error != "Failed to transcribe audio. Please try again." {
		t.Errorf("error: got %q", snap.Error)
	}
	if snap.Transcript != "" || snap.ResponseHTML != "" {
		t.Error("no partial state should be recorded for a failed first stage")
	}
}

func TestFullCycle_LongTranscriptIsSummarized(t *testing.T) {
	words := make([]string, 140)
	for i := range words {
		words[i] = "word"
	}
	whisper := newWhisperServer(t, strings.Join(words, " "))
	defer whisper.Close()

	var gotPrompt string
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotPrompt = string(body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer llm.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := application.NewSessionController(
		&fixedRecorder{},
		openai.NewWhisperClientWithURL("key", "", whisper.URL),
		gemini.NewClientWithURL("key", "", llm.URL),
		markdown.NewRenderer(),
		&application.NoopSink{},
		100,
		logger,
	)

	if err := controller.Submit(context.Background(), []byte("wav")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if !strings.Contains(gotPrompt, "...") {
		t.Error("prompt should contain the truncation marker")
	}

	// The full 140-word transcript must not reach the generator.
	if strings.Count(gotPrompt, "word") > 101 {
		t.Errorf("prompt contains %d occurrences of the token, want at most 101",
			strings.Count(gotPrompt, "word"))
	}
}
