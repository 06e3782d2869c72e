// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import "errors"

// ErrNotOpen is returned when writing to an output that was not opened
var ErrNotOpen = errors.New("output not opened")

// Output represents an audio output device
type Output interface {
	// Open initializes the output device for interleaved 16-bit PCM
	Open(sampleRate, channels int) error

	// Write outputs audio samples (blocks until accepted by the device)
	Write(samples []int16) error

	// Close releases output resources
	Close() error
}
