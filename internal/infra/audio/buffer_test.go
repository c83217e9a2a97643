package audio_test

import (
	"testing"

	"voice-companion/internal/infra/audio"
)

func TestChunkBuffer_PreservesOrder(t *testing.T) {
	buf := audio.NewChunkBuffer()
	buf.Append([]int16{1, 2})
	buf.Append([]int16{3})
	buf.Append([]int16{4, 5, 6})

	if buf.Len() != 6 {
		t.Errorf("Len: got %d, want 6", buf.Len())
	}

	samples := buf.Drain()
	want := []int16{1, 2, 3, 4, 5, 6}
	if len(samples) != len(want) {
		t.Fatalf("drained %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, samples[i], want[i])
		}
	}
}

func TestChunkBuffer_AppendCopies(t *testing.T) {
	buf := audio.NewChunkBuffer()
	chunk := []int16{7, 8}
	buf.Append(chunk)

	// Capture loops reuse their frame slice between reads.
	chunk[0] = 99

	samples := buf.Drain()
	if samples[0] != 7 {
		t.Errorf("buffer must copy chunks: got %d, want 7", samples[0])
	}
}

func TestChunkBuffer_DrainResets(t *testing.T) {
	buf := audio.NewChunkBuffer()
	buf.Append([]int16{1})
	buf.Drain()

	if buf.Len() != 0 {
		t.Errorf("Len after drain: got %d, want 0", buf.Len())
	}
	if got := buf.Drain(); len(got) != 0 {
		t.Errorf("second drain should be empty, got %d samples", len(got))
	}

	buf.Append(nil)
	if buf.Len() != 0 {
		t.Error("empty chunks should be ignored")
	}
}
