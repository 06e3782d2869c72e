// ABOUTME: Test helpers for the stream engine
// ABOUTME: Scripted Source recording pulls and seeks, plus polling helpers
package stream

import (
	"sync"
	"testing"
	"time"
)

// scriptedSource yields a fixed number of chunks per pass, rewinding on seek
type scriptedSource struct {
	mu        sync.Mutex
	chunks    int
	chunkSize int
	cursor    int
	pulls     int
	seeks     []time.Duration
	buf       []int16
	value     int16

	// Optional hook run at the start of every pull (outside the lock)
	onPull func(pull int)
}

func newScriptedSource(chunks, chunkSize int) *scriptedSource {
	return &scriptedSource{
		chunks:    chunks,
		chunkSize: chunkSize,
		buf:       make([]int16, chunkSize),
		value:     1000,
	}
}

func (s *scriptedSource) OnGetData(chunk *Chunk) bool {
	s.mu.Lock()
	s.pulls++
	pull := s.pulls
	hook := s.onPull
	s.mu.Unlock()

	if hook != nil {
		hook(pull)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= s.chunks {
		return false
	}
	for i := range s.buf {
		s.buf[i] = s.value
	}
	chunk.Samples = s.buf
	chunk.SampleCount = uint(len(s.buf))
	s.cursor++
	return s.cursor < s.chunks
}

func (s *scriptedSource) OnSeek(offset time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, offset)
	s.cursor = 0
}

func (s *scriptedSource) Pulls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulls
}

func (s *scriptedSource) Seeks() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.seeks))
	copy(out, s.seeks)
	return out
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
