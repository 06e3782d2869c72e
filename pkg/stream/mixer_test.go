// ABOUTME: Tests for stream mixing
// ABOUTME: Verifies gain, pan, distance and cone attenuation and pitch
package stream

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/rs/zerolog"
)

func mixOnce(t *testing.T, s *Stream, in []int16) []int16 {
	t.Helper()
	s.mu.Lock()
	p := s.params
	s.mu.Unlock()
	return s.mix(in, p, nil)
}

func TestMixDefaultIsUnchanged(t *testing.T) {
	s := New(nil, 2, 44100, WithListener(NewListener()), WithLogger(zerolog.Nop()))
	in := []int16{100, -100, 32767, -32768}
	out := mixOnce(t, s, in)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %d, got %d", i, in[i], out[i])
		}
	}
}

func TestMixVolume(t *testing.T) {
	l := NewListener()
	s := New(nil, 1, 44100, WithListener(l), WithLogger(zerolog.Nop()))
	s.SetVolume(50)

	out := mixOnce(t, s, []int16{1000, -1000})
	if out[0] != 500 || out[1] != -500 {
		t.Errorf("expected [500 -500], got %v", out)
	}

	l.SetGlobalVolume(50)
	out = mixOnce(t, s, []int16{1000})
	if out[0] != 250 {
		t.Errorf("expected 250 with global volume 50, got %d", out[0])
	}
}

func TestMixClips(t *testing.T) {
	s := New(nil, 1, 44100, WithListener(NewListener()), WithLogger(zerolog.Nop()))
	s.SetVolume(400)
	s.SetSpatializationEnabled(false)

	out := mixOnce(t, s, []int16{20000, -20000})
	if out[0] != math.MaxInt16 || out[1] != math.MinInt16 {
		t.Errorf("expected clipping, got %v", out)
	}
}

func TestMixPan(t *testing.T) {
	s := New(nil, 2, 44100, WithListener(NewListener()), WithLogger(zerolog.Nop()))

	s.SetPan(1)
	out := mixOnce(t, s, []int16{1000, 1000})
	if out[0] != 0 || out[1] != 1000 {
		t.Errorf("pan right: expected [0 1000], got %v", out)
	}

	s.SetPan(-0.5)
	out = mixOnce(t, s, []int16{1000, 1000})
	if out[0] != 1000 || out[1] != 500 {
		t.Errorf("pan left: expected [1000 500], got %v", out)
	}
}

func TestDistanceGain(t *testing.T) {
	p := defaultParams()

	tests := []struct {
		name     string
		position audio.Vector3
		minDist  float32
		atten    float32
		expected float32
	}{
		{"inside min distance", audio.Vector3{X: 0.5}, 1, 1, 1},
		{"double distance", audio.Vector3{X: 2}, 1, 1, 0.5},
		{"no attenuation", audio.Vector3{X: 100}, 1, 0, 1},
		{"strong attenuation", audio.Vector3{Y: 3}, 1, 2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.position = tt.position
			p.minDistance = tt.minDist
			p.attenuation = tt.atten
			if got := distanceGain(p, audio.Vector3{}); math.Abs(float64(got-tt.expected)) > 1e-6 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDistanceGainRelativeToListener(t *testing.T) {
	p := defaultParams()
	p.position = audio.Vector3{X: 2}
	listener := audio.Vector3{X: 2}

	if got := distanceGain(p, listener); got != 1 {
		t.Errorf("absolute position at listener: expected 1, got %v", got)
	}

	p.relativeToListener = true
	if got := distanceGain(p, listener); got != 0.5 {
		t.Errorf("relative position: expected 0.5, got %v", got)
	}
}

func TestConeGain(t *testing.T) {
	p := defaultParams()
	if got := coneGain(p, audio.Vector3{}); got != 1 {
		t.Errorf("omnidirectional: expected 1, got %v", got)
	}

	// Source at origin facing -Z, listener behind it at +Z
	p.cone = audio.Cone{InnerAngle: 90, OuterAngle: 180, OuterGain: 0.25}
	p.direction = audio.Vector3{Z: -1}

	if got := coneGain(p, audio.Vector3{Z: -5}); got != 1 {
		t.Errorf("in front: expected 1, got %v", got)
	}
	if got := coneGain(p, audio.Vector3{Z: 5}); got != 0.25 {
		t.Errorf("behind: expected 0.25, got %v", got)
	}

	p.directionalAttenuation = 0
	if got := coneGain(p, audio.Vector3{Z: 5}); got != 1 {
		t.Errorf("factor 0: expected 1, got %v", got)
	}
}

func TestPanGains(t *testing.T) {
	tests := []struct {
		pan         float32
		left, right float32
	}{
		{0, 1, 1},
		{1, 0, 1},
		{-1, 1, 0},
		{0.25, 0.75, 1},
		{5, 0, 1},
	}
	for _, tt := range tests {
		l, r := panGains(tt.pan)
		if l != tt.left || r != tt.right {
			t.Errorf("pan=%v: expected (%v, %v), got (%v, %v)", tt.pan, tt.left, tt.right, l, r)
		}
	}
}

func TestMixPitch(t *testing.T) {
	s := New(nil, 1, 8000, WithListener(NewListener()), WithLogger(zerolog.Nop()))
	s.SetPitch(2)

	out := mixOnce(t, s, make([]int16, 100))
	if len(out) != 50 {
		t.Errorf("expected 50 samples at pitch 2, got %d", len(out))
	}
}
