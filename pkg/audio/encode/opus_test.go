// ABOUTME: Unit tests for Opus encoder
// ABOUTME: Tests Opus encoding and a decode round trip
package encode

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
)

func TestNewOpus(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid Opus 48kHz stereo",
			format: audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16},
		},
		{
			name:   "valid Opus 48kHz mono",
			format: audio.Format{Codec: "opus", SampleRate: 48000, Channels: 1, BitDepth: 16},
		},
		{
			name:        "invalid codec",
			format:      audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16},
			wantErr:     true,
			errContains: "invalid codec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewOpus(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewOpus() expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewOpus() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewOpus() unexpected error = %v", err)
			}
			if encoder.FrameSamples() != 960*tt.format.Channels {
				t.Errorf("expected %d samples per frame, got %d", 960*tt.format.Channels, encoder.FrameSamples())
			}
			encoder.Close()
		})
	}
}

func TestOpusEncoder_Encode(t *testing.T) {
	format := audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}

	encoder, err := NewOpus(format)
	if err != nil {
		t.Fatalf("NewOpus() failed: %v", err)
	}
	defer encoder.Close()

	samples := make([]int16, encoder.FrameSamples())
	for i := range samples {
		samples[i] = int16((i % 100) * 200)
	}

	packet, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(packet) == 0 || len(packet) > maxOpusPacket {
		t.Fatalf("Encode() returned %d bytes", len(packet))
	}

	decoder, err := decode.NewOpus(format)
	if err != nil {
		t.Fatalf("decode.NewOpus() failed: %v", err)
	}
	pcm, err := decoder.Decode(packet)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(pcm) != len(samples) {
		t.Errorf("expected %d decoded samples, got %d", len(samples), len(pcm))
	}
}

func TestOpusEncoder_WrongFrameSize(t *testing.T) {
	encoder, err := NewOpus(audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewOpus() failed: %v", err)
	}

	if _, err := encoder.Encode(make([]int16, 100)); err == nil {
		t.Error("expected error for short frame")
	}
}
