// ABOUTME: Tests for the player and feed applications
// ABOUTME: Runs headless with a discard output against temp files and an httptest feed
package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/feed"
	"github.com/Resonate-Protocol/soundstream/internal/player"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/rs/zerolog"
)

func testPlayerConfig(source string) config.Player {
	return config.Player{
		Source:        source,
		Output:        "discard",
		Codec:         "pcm",
		Buffer:        time.Second,
		Volume:        100,
		Pitch:         1,
		ToneFrequency: 440,
		SampleRate:    8000,
		Channels:      2,
	}
}

func writeTestWAV(t *testing.T, frames int) string {
	t.Helper()
	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()
	if err := decode.WriteWAV(f, samples, 8000, 1); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	return path
}

func TestIsFeedAddress(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{"ws://den.local:8928/pcm", true},
		{"wss://example.com/pcm", true},
		{"localhost:8928", true},
		{"192.168.1.5:8928", true},
		{"song.flac", false},
		{"/music/album/track.wav", false},
		{"tone", false},
	}

	for _, tt := range tests {
		if got := isFeedAddress(tt.source); got != tt.expected {
			t.Errorf("isFeedAddress(%q): expected %v, got %v", tt.source, tt.expected, got)
		}
	}
}

func TestOpenSourceTone(t *testing.T) {
	track, name, err := openSource(context.Background(), testPlayerConfig(ToneSource))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer track.Close()

	if _, ok := track.(*player.Tone); !ok {
		t.Errorf("expected tone track, got %T", track)
	}
	if name != "Test Tone 440Hz" {
		t.Errorf("unexpected name %q", name)
	}
	if f := track.Format(); f.SampleRate != 8000 || f.Channels != 2 {
		t.Errorf("unexpected format %v", f)
	}
}

func TestOpenSourceFile(t *testing.T) {
	path := writeTestWAV(t, 4000)

	track, name, err := openSource(context.Background(), testPlayerConfig(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer track.Close()

	if name != "clip.wav" {
		t.Errorf("expected file name, got %q", name)
	}
	if track.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", track.Duration())
	}
}

func TestOpenSourceFeed(t *testing.T) {
	logger := zerolog.Nop()
	samples := make([]int16, 8000)
	srv := feed.NewServer(func() (decode.Track, error) {
		return decode.NewPCMTrack(samples, 8000, 1), nil
	}, feed.Config{Title: "Den", Logger: &logger})
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		srv.Close()
		ts.Close()
	}()

	addr := "ws://" + strings.TrimPrefix(ts.URL, "http://")
	track, name, err := openSource(context.Background(), testPlayerConfig(addr))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer track.Close()

	if name != "Den" {
		t.Errorf("expected feed title, got %q", name)
	}
	if _, ok := track.(*feed.Client); !ok {
		t.Errorf("expected feed client, got %T", track)
	}
}

func TestOpenSourceMissingFile(t *testing.T) {
	cfg := testPlayerConfig(filepath.Join(t.TempDir(), "missing.flac"))
	if _, _, err := openSource(context.Background(), cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPlayerRunHeadless(t *testing.T) {
	path := writeTestWAV(t, 2000)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := NewPlayer(testPlayerConfig(path)).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("expected playback to end before the deadline")
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("expected paced playback of 250ms, finished in %v", elapsed)
	}
}

func TestPlayerRunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := NewPlayer(testPlayerConfig(ToneSource)).Run(ctx); err != nil {
		t.Errorf("expected clean exit on cancel, got %v", err)
	}
}

func TestPlayerRunBadOutput(t *testing.T) {
	cfg := testPlayerConfig(ToneSource)
	cfg.Output = "alsa"
	if err := NewPlayer(cfg).Run(context.Background()); err == nil {
		t.Error("expected error for unknown output")
	}
}

func TestFeedOpener(t *testing.T) {
	f := NewFeed(config.Feed{Source: ToneSource, ToneFrequency: 220, SampleRate: 48000, Channels: 2})
	open, title, err := f.opener()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Test Tone 220Hz" {
		t.Errorf("unexpected title %q", title)
	}
	track, err := open()
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	if track.Format().SampleRate != 48000 {
		t.Errorf("expected 48000Hz, got %d", track.Format().SampleRate)
	}

	path := writeTestWAV(t, 800)
	open, title, err = NewFeed(config.Feed{Source: path}).opener()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "clip.wav" {
		t.Errorf("expected file title, got %q", title)
	}
	track, err = open()
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	track.Close()

	if _, _, err := NewFeed(config.Feed{Source: "missing.mp3"}).opener(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFeedRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	f := NewFeed(config.Feed{
		Source:        ToneSource,
		Name:          "test",
		Port:          0,
		ChunkDuration: 20 * time.Millisecond,
		ToneFrequency: 440,
		SampleRate:    48000,
		Channels:      2,
	})
	if err := f.Run(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
