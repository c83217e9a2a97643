package audio

import "sync"

// ChunkBuffer accumulates capture chunks in arrival order. It is written by
// the capture goroutine and drained once on finalize.
type ChunkBuffer struct {
	mu     sync.Mutex
	chunks [][]int16
	total  int
}

func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{}
}

// Append copies the chunk into the buffer. The caller may reuse its slice.
func (b *ChunkBuffer) Append(chunk []int16) {
	if len(chunk) == 0 {
		return
	}
	copied := make([]int16, len(chunk))
	copy(copied, chunk)

	b.mu.Lock()
	b.chunks = append(b.chunks, copied)
	b.total += len(copied)
	b.mu.Unlock()
}

// Drain concatenates all chunks into one sample slice and resets the buffer.
func (b *ChunkBuffer) Drain() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := make([]int16, 0, b.total)
	for _, chunk := range b.chunks {
		samples = append(samples, chunk...)
	}

	b.chunks = nil
	b.total = 0
	return samples
}

// Len reports the number of buffered samples.
func (b *ChunkBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}
