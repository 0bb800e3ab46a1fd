package chunkuploader

import (
	"sync"
	"time"
)

// Stats tracks per-chunk request durations and transferred bytes of one upload.
type Stats struct {
	sum            time.Duration
	bytes          int64
	finishedChunks int64
	mu             sync.Mutex
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{}
}

// Update records a successfully sent chunk.
func (s *Stats) Update(d time.Duration, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sum += d
	s.bytes += size
	s.finishedChunks++
}

// Average returns the average request duration of finished chunks.
func (s *Stats) Average() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finishedChunks == 0 {
		return 0
	}
	return s.sum / time.Duration(s.finishedChunks)
}

// FinishedCount returns the number of sent chunks.
func (s *Stats) FinishedCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedChunks
}

// Bytes returns the number of bytes sent.
func (s *Stats) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Throughput returns the average transfer rate in bytes per second.
func (s *Stats) Throughput() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sum <= 0 {
		return 0
	}
	return float64(s.bytes) / s.sum.Seconds()
}
