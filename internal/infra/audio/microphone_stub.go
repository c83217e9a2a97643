//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Microphone stub when portaudio is not available. Browser-side capture via
// the upload endpoint still works with this build.
type Microphone struct {
	logger *slog.Logger
}

func NewMicrophone(sampleRate int, logger *slog.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Start(_ context.Context) error {
	return fmt.Errorf("microphone not available: rebuild with -tags portaudio")
}

func (m *Microphone) Stop() ([]byte, error) {
	return nil, fmt.Errorf("microphone not available")
}
