// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio encoders
package encode

import (
	"fmt"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// Encoder encodes PCM int16 samples to various formats
type Encoder interface {
	// Encode converts PCM samples to encoded audio data
	Encode(samples []int16) ([]byte, error)

	// FrameSamples is the number of interleaved samples Encode expects per
	// call, or 0 when any length is accepted
	FrameSamples() int

	// Close releases encoder resources
	Close() error
}

// NewEncoder creates an encoder for format
func NewEncoder(format audio.Format) (Encoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "opus":
		return NewOpus(format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}
