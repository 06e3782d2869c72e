// ABOUTME: WAV file decoder
// ABOUTME: Reads a whole WAV file into memory via go-audio/wav
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// NewWAV decodes a WAV stream fully and returns it as an in-memory track
func NewWAV(r io.ReadSeeker) (*PCMTrack, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav file", ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav: %w", err)
	}

	depth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if depth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = audio.SampleFromInt32(int32(v), depth)
	}

	return newPCMTrack("wav", samples, int(dec.SampleRate), int(dec.NumChans)), nil
}

// WriteWAV encodes interleaved 16-bit samples as a WAV stream
func WriteWAV(w io.WriteSeeker, samples []int16, sampleRate, channels int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return enc.Close()
}
