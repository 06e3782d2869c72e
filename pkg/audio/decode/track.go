// ABOUTME: Seekable PCM tracks opened from files or memory
// ABOUTME: Dispatches on file extension to the WAV, MP3, FLAC and Vorbis readers
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// ErrUnsupportedFormat is returned for files and codecs that cannot be decoded
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Track is a seekable source of interleaved 16-bit PCM
type Track interface {
	// Read fills dst with interleaved samples and returns how many were
	// written. It returns io.EOF once the track is exhausted.
	Read(dst []int16) (int, error)

	// Seek moves to offset from the start. Offsets past the end leave the
	// track exhausted.
	Seek(offset time.Duration) error

	// Format describes the decoded samples
	Format() audio.Format

	// Duration is the total length, or 0 when unknown
	Duration() time.Duration

	Close() error
}

// Open decodes the file at path, picking a decoder by extension
func Open(path string) (Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac", ".ogg", ".oga":
	default:
		return nil, fmt.Errorf("%w: %q (supported: .wav, .mp3, .flac, .ogg)", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var t Track
	switch ext {
	case ".wav":
		t, err = NewWAV(f)
		// WAV is decoded up front
		f.Close()
		if err != nil {
			return nil, err
		}
		return t, nil
	case ".mp3":
		t, err = NewMP3(f)
	case ".flac":
		t, err = NewFLAC(f)
	default:
		t, err = NewVorbis(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileTrack{Track: t, file: f}, nil
}

// fileTrack closes the backing file along with the track
type fileTrack struct {
	Track
	file *os.File
}

func (t *fileTrack) Close() error {
	err := t.Track.Close()
	if cerr := t.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// PCMTrack is a Track over samples held in memory
type PCMTrack struct {
	format  audio.Format
	samples []int16
	cursor  int
}

// NewPCMTrack wraps interleaved samples in a Track
func NewPCMTrack(samples []int16, sampleRate, channels int) *PCMTrack {
	return newPCMTrack("pcm", samples, sampleRate, channels)
}

func newPCMTrack(codec string, samples []int16, sampleRate, channels int) *PCMTrack {
	return &PCMTrack{
		format: audio.Format{
			Codec:      codec,
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
		samples: samples,
	}
}

func (t *PCMTrack) Read(dst []int16) (int, error) {
	if t.cursor >= len(t.samples) {
		return 0, io.EOF
	}
	n := copy(dst, t.samples[t.cursor:])
	t.cursor += n
	return n, nil
}

func (t *PCMTrack) Seek(offset time.Duration) error {
	if t.format.Channels <= 0 {
		return nil
	}
	frame := max(audio.DurationToFrames(offset, t.format.SampleRate), 0)
	pos := min(frame*int64(t.format.Channels), int64(len(t.samples)))
	t.cursor = int(pos)
	return nil
}

func (t *PCMTrack) Format() audio.Format {
	return t.format
}

func (t *PCMTrack) Duration() time.Duration {
	if t.format.Channels <= 0 {
		return 0
	}
	return audio.FramesToDuration(int64(len(t.samples)/t.format.Channels), t.format.SampleRate)
}

// Samples returns the underlying sample slice
func (t *PCMTrack) Samples() []int16 {
	return t.samples
}

func (t *PCMTrack) Close() error {
	return nil
}

// ReadAll drains t into memory
func ReadAll(t Track) ([]int16, error) {
	var out []int16
	buf := make([]int16, 4096)
	for {
		n, err := t.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
