// ABOUTME: Frame decoder interface definition
// ABOUTME: Common interface for decoders of network audio frames
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// Decoder decodes encoded audio frames to interleaved int16 PCM
type Decoder interface {
	// Decode converts one encoded frame to PCM samples
	Decode(data []byte) ([]int16, error)

	// Close releases decoder resources
	Close() error
}

// NewDecoder creates a frame decoder for format
func NewDecoder(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "opus":
		return NewOpus(format)
	default:
		return nil, fmt.Errorf("%w: codec %q", ErrUnsupportedFormat, format.Codec)
	}
}
