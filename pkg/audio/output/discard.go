// ABOUTME: Discarding audio output
// ABOUTME: Drops or captures samples, optionally pacing writes in real time
package output

import (
	"sync"
	"time"
)

// Discard is an Output that never touches a device.
// With Realtime set, Write sleeps for the duration of the written audio so
// the caller is paced like a real device. With Capture set, written samples
// are retained and returned by Samples.
type Discard struct {
	Realtime bool
	Capture  bool

	mu         sync.Mutex
	sampleRate int
	channels   int
	written    int64
	captured   []int16
	open       bool
}

// NewDiscard creates a discard output that does not pace writes
func NewDiscard() *Discard {
	return &Discard{}
}

// Open records the stream format
func (d *Discard) Open(sampleRate, channels int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sampleRate = sampleRate
	d.channels = channels
	d.open = true
	return nil
}

// Write accepts samples
func (d *Discard) Write(samples []int16) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrNotOpen
	}
	d.written += int64(len(samples))
	if d.Capture {
		d.captured = append(d.captured, samples...)
	}
	rate, channels := d.sampleRate, d.channels
	d.mu.Unlock()

	if d.Realtime && rate > 0 && channels > 0 {
		frames := len(samples) / channels
		time.Sleep(time.Duration(frames) * time.Second / time.Duration(rate))
	}
	return nil
}

// Written returns the total number of samples accepted
func (d *Discard) Written() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written
}

// Samples returns a copy of the captured samples
func (d *Discard) Samples() []int16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int16, len(d.captured))
	copy(out, d.captured)
	return out
}

// Close marks the output closed
func (d *Discard) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}
