// ABOUTME: Test tone generator implementing decode.Track
// ABOUTME: Generates an endless sine wave at half scale on every channel
package player

import (
	"math"
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// DefaultToneFrequency is A4
const DefaultToneFrequency = 440.0

// Tone is an endless sine wave
type Tone struct {
	frequency  float64
	sampleRate int
	channels   int

	mu    sync.Mutex
	frame int64
}

// NewTone creates a tone generator
func NewTone(frequency float64, sampleRate, channels int) *Tone {
	if frequency <= 0 {
		frequency = DefaultToneFrequency
	}
	return &Tone{
		frequency:  frequency,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Read fills whole frames of dst and never reports end of stream
func (t *Tone) Read(dst []int16) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	frames := len(dst) / t.channels
	for i := 0; i < frames; i++ {
		at := float64(t.frame+int64(i)) / float64(t.sampleRate)
		value := int16(math.Sin(2*math.Pi*t.frequency*at) * 32767.0 * 0.5)
		for ch := 0; ch < t.channels; ch++ {
			dst[i*t.channels+ch] = value
		}
	}
	t.frame += int64(frames)

	return frames * t.channels, nil
}

// Seek moves the phase to offset
func (t *Tone) Seek(offset time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = max(audio.DurationToFrames(offset, t.sampleRate), 0)
	return nil
}

func (t *Tone) Format() audio.Format {
	return audio.Format{
		Codec:      "tone",
		SampleRate: t.sampleRate,
		Channels:   t.channels,
		BitDepth:   16,
	}
}

// Duration is 0 since the tone never ends
func (t *Tone) Duration() time.Duration {
	return 0
}

func (t *Tone) Close() error {
	return nil
}
