// ABOUTME: Ogg Vorbis file decoder
// ABOUTME: Streams Vorbis through jfreymuth/oggvorbis and converts float samples
package decode

import (
	"fmt"
	"io"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisTrack decodes Ogg Vorbis incrementally
type VorbisTrack struct {
	reader *oggvorbis.Reader
	format audio.Format
	buf    []float32
}

// NewVorbis creates a Vorbis track. Seeking requires r to implement io.Seeker.
func NewVorbis(r io.Reader) (*VorbisTrack, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vorbis: %w", err)
	}

	return &VorbisTrack{
		reader: reader,
		format: audio.Format{
			Codec:      "vorbis",
			SampleRate: reader.SampleRate(),
			Channels:   reader.Channels(),
			BitDepth:   16,
		},
	}, nil
}

func (t *VorbisTrack) Read(dst []int16) (int, error) {
	// Read whole frames only
	want := len(dst) - len(dst)%max(t.format.Channels, 1)
	if cap(t.buf) < want {
		t.buf = make([]float32, want)
	}
	buf := t.buf[:want]

	n, err := t.reader.Read(buf)
	for i := 0; i < n; i++ {
		dst[i] = audio.SampleFromFloat32(buf[i])
	}
	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

func (t *VorbisTrack) Seek(offset time.Duration) error {
	frame := max(audio.DurationToFrames(offset, t.format.SampleRate), 0)
	if length := t.reader.Length(); length > 0 {
		frame = min(frame, length)
	}
	if err := t.reader.SetPosition(frame); err != nil {
		return fmt.Errorf("failed to seek vorbis: %w", err)
	}
	return nil
}

func (t *VorbisTrack) Format() audio.Format {
	return t.format
}

func (t *VorbisTrack) Duration() time.Duration {
	return audio.FramesToDuration(t.reader.Length(), t.format.SampleRate)
}

func (t *VorbisTrack) Close() error {
	return nil
}
