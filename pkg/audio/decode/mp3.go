// ABOUTME: MP3 file decoder
// ABOUTME: Streams MP3 through go-mp3, which always yields 16-bit stereo
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 output is 16-bit stereo
const mp3FrameBytes = 4

// MP3Track decodes MP3 incrementally
type MP3Track struct {
	decoder *mp3.Decoder
	format  audio.Format
	buf     []byte
}

// NewMP3 creates an MP3 track. Seeking requires r to implement io.Seeker.
func NewMP3(r io.Reader) (*MP3Track, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	return &MP3Track{
		decoder: dec,
		format: audio.Format{
			Codec:      "mp3",
			SampleRate: dec.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}

func (t *MP3Track) Read(dst []int16) (int, error) {
	need := len(dst) * 2
	if cap(t.buf) < need {
		t.buf = make([]byte, need)
	}
	buf := t.buf[:need]

	n, err := io.ReadFull(t.decoder, buf)
	samples := n / 2
	for i := 0; i < samples; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	switch {
	case err == nil:
		return samples, nil
	case err == io.ErrUnexpectedEOF || (err == io.EOF && samples > 0):
		return samples, nil
	default:
		return samples, err
	}
}

func (t *MP3Track) Seek(offset time.Duration) error {
	frame := max(audio.DurationToFrames(offset, t.format.SampleRate), 0)
	pos := frame * mp3FrameBytes
	if length := t.decoder.Length(); length >= 0 {
		pos = min(pos, length)
	}
	if _, err := t.decoder.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek mp3: %w", err)
	}
	return nil
}

func (t *MP3Track) Format() audio.Format {
	return t.format
}

func (t *MP3Track) Duration() time.Duration {
	length := t.decoder.Length()
	if length < 0 {
		return 0
	}
	return audio.FramesToDuration(length/mp3FrameBytes, t.format.SampleRate)
}

func (t *MP3Track) Close() error {
	return nil
}
