// ABOUTME: Tests for track playback through the sound stream adapter
// ABOUTME: Uses a discard output so no audio device is needed
package player

import (
	"errors"
	"testing"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/output"
	"github.com/Resonate-Protocol/soundstream/pkg/stream"
	"github.com/rs/zerolog"
)

func newTestPlayer(t *testing.T, track decode.Track) (*Player, *output.Discard) {
	t.Helper()
	out := output.NewDiscard()
	logger := zerolog.Nop()
	p, err := New(track, Config{Logger: &logger},
		stream.WithOutput(out),
		stream.WithLogger(logger),
		stream.WithListener(stream.NewListener()))
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p, out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func oneSecondTrack() *decode.PCMTrack {
	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = int16(i)
	}
	return decode.NewPCMTrack(samples, 8000, 1)
}

func TestPlayWholeTrack(t *testing.T) {
	p, out := newTestPlayer(t, oneSecondTrack())

	if p.Sound().ChannelCount() != 1 || p.Sound().SampleRate() != 8000 {
		t.Fatalf("expected 1ch 8000Hz, got %dch %dHz", p.Sound().ChannelCount(), p.Sound().SampleRate())
	}

	p.Play()
	waitFor(t, "end of track", func() bool { return p.Status() == audio.Stopped })

	if out.Written() != 8000 {
		t.Errorf("expected 8000 samples written, got %d", out.Written())
	}
	stats := p.Stats()
	if stats.Samples != 8000 {
		t.Errorf("expected 8000 samples pulled, got %d", stats.Samples)
	}
	if stats.Chunks != 20 {
		t.Errorf("expected 20 chunks of 50ms, got %d", stats.Chunks)
	}
	if stats.Seeks != 0 {
		t.Errorf("expected no seeks, got %d", stats.Seeks)
	}
	if p.Err() != nil {
		t.Errorf("unexpected error: %v", p.Err())
	}
}

func TestSeekBeforePlay(t *testing.T) {
	p, out := newTestPlayer(t, oneSecondTrack())

	p.Seek(500 * time.Millisecond)
	if p.Position() != 500*time.Millisecond {
		t.Errorf("expected pending position 500ms, got %v", p.Position())
	}

	p.Play()
	waitFor(t, "end of track", func() bool { return p.Status() == audio.Stopped })

	if out.Written() != 4000 {
		t.Errorf("expected 4000 samples after seek, got %d", out.Written())
	}
	if p.Stats().Seeks != 1 {
		t.Errorf("expected one seek, got %d", p.Stats().Seeks)
	}
}

func TestSeekClamps(t *testing.T) {
	p, _ := newTestPlayer(t, oneSecondTrack())

	p.Seek(5 * time.Second)
	if p.Position() != time.Second {
		t.Errorf("expected clamp to 1s, got %v", p.Position())
	}

	p.Seek(-time.Second)
	if p.Position() != 0 {
		t.Errorf("expected clamp to 0, got %v", p.Position())
	}

	p.Seek(300 * time.Millisecond)
	p.SeekBy(200 * time.Millisecond)
	if p.Position() != 500*time.Millisecond {
		t.Errorf("expected 500ms after relative seek, got %v", p.Position())
	}
}

func TestToggle(t *testing.T) {
	p, _ := newTestPlayer(t, NewTone(440, 8000, 2))

	p.Toggle()
	if p.Status() != audio.Playing {
		t.Fatalf("expected playing, got %v", p.Status())
	}
	p.Toggle()
	if p.Status() != audio.Paused {
		t.Fatalf("expected paused, got %v", p.Status())
	}
	p.Toggle()
	if p.Status() != audio.Playing {
		t.Fatalf("expected playing after resume, got %v", p.Status())
	}
	p.Stop()
	if p.Status() != audio.Stopped {
		t.Errorf("expected stopped, got %v", p.Status())
	}
}

type failingTrack struct {
	*decode.PCMTrack
}

var errBroken = errors.New("broken pipe")

func (failingTrack) Read([]int16) (int, error) {
	return 0, errBroken
}

func TestReadErrorEndsPlayback(t *testing.T) {
	p, _ := newTestPlayer(t, failingTrack{oneSecondTrack()})

	p.Play()
	waitFor(t, "stop after error", func() bool { return p.Status() == audio.Stopped })

	if !errors.Is(p.Err(), errBroken) {
		t.Errorf("expected read error, got %v", p.Err())
	}
	if p.Stats().Errors == 0 {
		t.Error("expected error count")
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := New(decode.NewPCMTrack(nil, 0, 1), Config{}); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
