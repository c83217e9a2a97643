//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// Microphone captures mono 16-bit audio through portaudio. Chunks are
// buffered in memory between Start and Stop; Stop concatenates them into a
// single WAV payload and releases the device.
type Microphone struct {
	sampleRate int
	logger     *slog.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  *ChunkBuffer
	done    chan struct{}
	capture sync.WaitGroup
}

func NewMicrophone(sampleRate int, logger *slog.Logger) *Microphone {
	return &Microphone{
		sampleRate: sampleRate,
		logger:     logger,
	}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return fmt.Errorf("microphone already recording")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	frames := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), framesPerBuffer, frames)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}

	m.stream = stream
	m.buffer = NewChunkBuffer()
	m.done = make(chan struct{})

	m.capture.Add(1)
	go m.captureLoop(stream, frames, m.done)

	m.logger.Info("microphone started", "sampleRate", m.sampleRate)
	return nil
}

func (m *Microphone) captureLoop(stream *portaudio.Stream, frames []int16, done chan struct{}) {
	defer m.capture.Done()

	for {
		select {
		case <-done:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			select {
			case <-done:
				// Normal shutdown aborts an in-flight read.
			default:
				m.logger.Warn("reading from stream", "error", err)
			}
			return
		}
		m.buffer.Append(frames)
	}
}

// Stop ends capture, releases the device, and returns the buffered chunks as
// one WAV payload. The device is released even if no audio was captured.
func (m *Microphone) Stop() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil, fmt.Errorf("microphone not recording")
	}

	// Stop the stream first so a blocked Read returns before we wait.
	close(m.done)
	m.stream.Stop()
	m.capture.Wait()

	m.stream.Close()
	portaudio.Terminate()
	m.stream = nil

	samples := m.buffer.Drain()
	m.buffer = nil

	m.logger.Info("microphone stopped", "samples", len(samples))
	return EncodeWAV(samples, m.sampleRate), nil
}
