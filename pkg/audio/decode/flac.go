// ABOUTME: FLAC file decoder
// ABOUTME: Streams FLAC frames through mewkiz/flac with sample-accurate seeking
package decode

import (
	"fmt"
	"io"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// FLACTrack decodes FLAC incrementally
type FLACTrack struct {
	stream   *flac.Stream
	format   audio.Format
	bitDepth int

	// Current frame and the next frame-relative sample index to emit
	current *frame.Frame
	index   int
	eof     bool
}

// NewFLAC creates a FLAC track over a seekable reader
func NewFLAC(r io.ReadSeeker) (*FLACTrack, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode flac: %w", err)
	}

	info := stream.Info
	return &FLACTrack{
		stream:   stream,
		bitDepth: int(info.BitsPerSample),
		format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   16,
		},
	}, nil
}

func (t *FLACTrack) Read(dst []int16) (int, error) {
	channels := t.format.Channels
	n := 0

	for n+channels <= len(dst) {
		if t.current == nil || t.index >= int(t.current.BlockSize) {
			if t.eof {
				break
			}
			f, err := t.stream.ParseNext()
			if err == io.EOF {
				t.eof = true
				break
			}
			if err != nil {
				return n, fmt.Errorf("failed to parse flac frame: %w", err)
			}
			t.current = f
			t.index = 0
			continue
		}

		for ch := 0; ch < channels; ch++ {
			s := t.current.Subframes[ch].Samples[t.index]
			dst[n] = audio.SampleFromInt32(s, t.bitDepth)
			n++
		}
		t.index++
	}

	if n == 0 && t.eof {
		return 0, io.EOF
	}
	return n, nil
}

func (t *FLACTrack) Seek(offset time.Duration) error {
	target := uint64(max(audio.DurationToFrames(offset, t.format.SampleRate), 0))
	total := t.stream.Info.NSamples

	t.current = nil
	t.index = 0
	t.eof = false

	if total > 0 && target >= total {
		t.eof = true
		return nil
	}

	start, err := t.stream.Seek(target)
	if err != nil {
		return fmt.Errorf("failed to seek flac: %w", err)
	}

	// Seek lands on the frame containing target; skip into it
	f, err := t.stream.ParseNext()
	if err != nil {
		if err == io.EOF {
			t.eof = true
			return nil
		}
		return fmt.Errorf("failed to parse flac frame: %w", err)
	}
	t.current = f
	t.index = min(int(target-start), int(f.BlockSize))
	return nil
}

func (t *FLACTrack) Format() audio.Format {
	return t.format
}

func (t *FLACTrack) Duration() time.Duration {
	return audio.FramesToDuration(int64(t.stream.Info.NSamples), t.format.SampleRate)
}

func (t *FLACTrack) Close() error {
	return nil
}
