package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voice-companion/internal/domain"
)

// ErrCycleActive is returned when a new recording is requested while a
// recording or processing cycle is already underway.
var ErrCycleActive = errors.New("a recording or processing cycle is already active")

// SessionController orchestrates one record, transcribe, summarize, respond,
// render cycle at a time and owns the presentation state the UI reads.
type SessionController struct {
	recorder  Recorder
	stt       SpeechToText
	responder ResponseGenerator
	renderer  Renderer
	events    EventSink
	logger    *slog.Logger

	summaryWords int

	mu   sync.Mutex
	snap domain.Snapshot
}

func NewSessionController(
	recorder Recorder,
	stt SpeechToText,
	responder ResponseGenerator,
	renderer Renderer,
	events EventSink,
	summaryWords int,
	logger *slog.Logger,
) *SessionController {
	if summaryWords <= 0 {
		summaryWords = DefaultSummaryWords
	}
	return &SessionController{
		recorder:     recorder,
		stt:          stt,
		responder:    responder,
		renderer:     renderer,
		events:       events,
		logger:       logger,
		summaryWords: summaryWords,
		snap:         domain.Snapshot{Status: domain.StatusIdle},
	}
}

// Snapshot returns the current presentation state.
func (c *SessionController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Start begins a new recording. A prior error is cleared; stale transcript
// and response text stay visible until new values arrive. Starting while a
// cycle is active is rejected so the device is never acquired twice.
func (c *SessionController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.snap.Status == domain.StatusRecording || c.snap.Status == domain.StatusProcessing {
		c.mu.Unlock()
		return ErrCycleActive
	}
	c.snap.Error = ""
	c.mu.Unlock()

	if err := c.recorder.Start(ctx); err != nil {
		c.logger.Error("starting recorder", "recorder", c.recorder.Name(), "error", err)
		c.setError(domain.StatusIdle, domain.ErrorPermissionDenied)
		return err
	}

	c.setStatus(domain.StatusRecording)
	c.logger.Info("recording started", "recorder", c.recorder.Name())
	return nil
}

// Stop finalizes the recording into a single audio payload and hands it to
// the transcription gateway asynchronously. Calling Stop while not recording
// is a no-op.
func (c *SessionController) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.snap.Status != domain.StatusRecording {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	payload, err := c.recorder.Stop()
	if err != nil {
		c.logger.Error("finalizing recording", "error", err)
		c.setError(domain.StatusError, domain.ErrorProcessing)
		return err
	}

	c.setStatus(domain.StatusProcessing)
	c.logger.Info("recording stopped", "bytes", len(payload))

	go c.runCycle(context.Background(), payload)
	return nil
}

// Submit runs a full processing cycle for an externally captured audio
// payload (e.g. recorded in the browser) and blocks until it completes.
func (c *SessionController) Submit(ctx context.Context, audio []byte) error {
	c.mu.Lock()
	if c.snap.Status == domain.StatusRecording || c.snap.Status == domain.StatusProcessing {
		c.mu.Unlock()
		return ErrCycleActive
	}
	c.snap.Error = ""
	c.snap.Status = domain.StatusProcessing
	c.mu.Unlock()
	c.events.StatusChanged(domain.StatusProcessing)

	c.runCycle(ctx, audio)
	return nil
}

// runCycle executes the strictly sequential pipeline: transcribe, summarize,
// respond, render. Each boundary failure is converted into its fixed
// user-visible message; nothing propagates further.
func (c *SessionController) runCycle(ctx context.Context, audio []byte) {
	cycleID := uuid.NewString()
	log := c.logger.With("cycle", cycleID)
	log.Info("processing audio", "bytes", len(audio))

	text, err := c.stt.Transcribe(ctx, audio)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Error("transcription failed", "error", err)
		c.setError(domain.StatusError, domain.ErrorTranscriptionFailed)
		return
	}

	c.mu.Lock()
	c.snap.Transcript = text
	c.mu.Unlock()
	c.events.TranscriptReady(text)
	log.Info("transcribed", "words", len(strings.Fields(text)))

	summary := Summarize(text, c.summaryWords)

	reply, err := c.responder.Generate(ctx, summary)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Error("response generation failed", "error", err)
		c.setError(domain.StatusError, domain.ErrorResponseFailed)
		return
	}

	html := c.renderer.Render(reply)

	c.mu.Lock()
	c.snap.ResponseMarkdown = reply
	c.snap.ResponseHTML = html
	c.snap.Status = domain.StatusIdle
	c.mu.Unlock()
	c.events.ResponseReady(reply, html)
	c.events.StatusChanged(domain.StatusIdle)
	log.Info("cycle complete")
}

func (c *SessionController) setStatus(status domain.SessionStatus) {
	c.mu.Lock()
	c.snap.Status = status
	c.mu.Unlock()
	c.events.StatusChanged(status)
}

// setError records a failed cycle. Transcript and response from earlier in
// the cycle are deliberately left in place alongside the error message.
func (c *SessionController) setError(status domain.SessionStatus, kind domain.ErrorKind) {
	message := kind.Message()

	c.mu.Lock()
	c.snap.Status = status
	c.snap.Error = message
	c.mu.Unlock()

	c.events.SessionError(message)
	c.events.StatusChanged(status)
}
