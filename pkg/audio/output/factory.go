// ABOUTME: Output backend selection by name
// ABOUTME: Maps configuration strings to Output implementations
package output

import "fmt"

// Backend names accepted by New
const (
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
	BackendDiscard   = "discard"
)

// New returns the output backend with the given name
func New(backend string) (Output, error) {
	switch backend {
	case BackendOto, "":
		return NewOto(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	case BackendDiscard:
		return &Discard{Realtime: true}, nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", backend)
	}
}
