package application

import "context"

// Recorder captures microphone audio between Start and Stop. Stop finalizes
// the buffered chunks into a single wave-compatible payload and must release
// the underlying device even when the rest of the cycle fails afterwards.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
	Name() string
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}
