// ABOUTME: Tests for file and memory tracks
// ABOUTME: Covers PCM tracks, WAV round trips and format detection
package decode

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPCMTrackReadAndSeek(t *testing.T) {
	samples := make([]int16, 2*1000)
	for i := range samples {
		samples[i] = int16(i)
	}
	track := NewPCMTrack(samples, 1000, 2)

	if track.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", track.Duration())
	}

	buf := make([]int16, 10)
	n, err := track.Read(buf)
	if err != nil || n != 10 {
		t.Fatalf("expected 10 samples, got %d (%v)", n, err)
	}
	if buf[9] != 9 {
		t.Errorf("expected sample 9, got %d", buf[9])
	}

	if err := track.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	n, _ = track.Read(buf[:2])
	if n != 2 || buf[0] != 1000 || buf[1] != 1001 {
		t.Errorf("expected frame 500 [1000 1001], got %v", buf[:n])
	}

	if err := track.Seek(5 * time.Second); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := track.Read(buf); err != io.EOF {
		t.Errorf("expected EOF after seeking past end, got %v", err)
	}

	if err := track.Seek(-time.Second); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	n, _ = track.Read(buf[:1])
	if n != 1 || buf[0] != 0 {
		t.Errorf("expected negative seek to clamp to start, got %v", buf[:n])
	}
}

func TestReadAll(t *testing.T) {
	samples := make([]int16, 10000)
	samples[9999] = 42
	got, err := ReadAll(NewPCMTrack(samples, 8000, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(samples) || got[9999] != 42 {
		t.Errorf("expected %d samples ending in 42, got %d", len(samples), len(got))
	}
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	samples := []int16{0, 0, 1000, -1000, 32767, -32768, 12, -12}
	if err := WriteWAV(f, samples, 22050, 2); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	f.Close()

	track, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open wav: %v", err)
	}
	defer track.Close()

	format := track.Format()
	if format.SampleRate != 22050 || format.Channels != 2 || format.Codec != "wav" {
		t.Errorf("unexpected format %v", format)
	}

	got, err := ReadAll(track)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("index %d: expected %d, got %d", i, samples[i], got[i])
		}
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("song.aac")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.flac"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestInvalidWAV(t *testing.T) {
	_, err := NewWAV(bytes.NewReader([]byte("definitely not a riff file")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestInvalidFLAC(t *testing.T) {
	if _, err := NewFLAC(bytes.NewReader([]byte("OggS not flac at all"))); err == nil {
		t.Error("expected error for invalid flac stream")
	}
}

func TestInvalidVorbis(t *testing.T) {
	if _, err := NewVorbis(bytes.NewReader([]byte("fLaC not vorbis"))); err == nil {
		t.Error("expected error for invalid vorbis stream")
	}
}

func TestInvalidMP3(t *testing.T) {
	if _, err := NewMP3(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty mp3 stream")
	}
}
