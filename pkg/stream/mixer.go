// ABOUTME: Per-chunk mixing for streams
// ABOUTME: Applies pitch, volume, distance/cone attenuation and stereo pan
package stream

import (
	"math"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

// mix renders in with the given parameters, appending to dst
func (s *Stream) mix(in []int16, p params, dst []int16) []int16 {
	samples := in
	if p.pitch > 0 && p.pitch != 1 && s.channelCount > 0 {
		s.pitched = s.resampler.Process(float64(p.pitch), in, s.pitched[:0])
		samples = s.pitched
	}

	master, listenerPos := s.listener.snapshot()
	gain := (p.volume / 100) * (master / 100)
	if p.spatialization {
		gain *= distanceGain(p, listenerPos) * coneGain(p, listenerPos)
	}

	if s.channelCount != 2 {
		for _, v := range samples {
			dst = append(dst, scale(v, gain))
		}
		return dst
	}

	left, right := panGains(p.pan)
	for i, v := range samples {
		if i%2 == 0 {
			dst = append(dst, scale(v, gain*left))
		} else {
			dst = append(dst, scale(v, gain*right))
		}
	}
	return dst
}

// scale applies gain to a sample with clipping
func scale(v int16, gain float32) int16 {
	if gain == 1 {
		return v
	}
	f := float64(v) * float64(gain)
	if f > math.MaxInt16 {
		return math.MaxInt16
	}
	if f < math.MinInt16 {
		return math.MinInt16
	}
	return int16(f)
}

// relativePosition returns the source position as seen from the listener
func relativePosition(p params, listenerPos audio.Vector3) audio.Vector3 {
	if p.relativeToListener {
		return p.position
	}
	return p.position.Sub(listenerPos)
}

// distanceGain uses the inverse distance clamped model
func distanceGain(p params, listenerPos audio.Vector3) float32 {
	dist := relativePosition(p, listenerPos).Length()
	if dist < p.minDistance {
		dist = p.minDistance
	}
	if dist > p.maxDistance {
		dist = p.maxDistance
	}

	gain := float32(1)
	if denom := p.minDistance + p.attenuation*(dist-p.minDistance); denom > 0 {
		gain = p.minDistance / denom
	}

	if gain < p.minGain {
		gain = p.minGain
	}
	if gain > p.maxGain {
		gain = p.maxGain
	}
	return gain
}

// coneGain attenuates sources that face away from the listener
func coneGain(p params, listenerPos audio.Vector3) float32 {
	if p.cone.InnerAngle >= 360 && p.cone.OuterAngle >= 360 {
		return 1
	}

	dir := p.direction.Normalized()
	toListener := relativePosition(p, listenerPos)
	toListener = audio.Vector3{X: -toListener.X, Y: -toListener.Y, Z: -toListener.Z}.Normalized()
	if dir == (audio.Vector3{}) || toListener == (audio.Vector3{}) {
		return 1
	}

	cos := math.Max(-1, math.Min(1, float64(dir.Dot(toListener))))
	angle := float32(math.Acos(cos) * 180 / math.Pi)

	inner, outer := p.cone.InnerAngle/2, p.cone.OuterAngle/2
	var gain float32
	switch {
	case angle <= inner:
		gain = 1
	case angle >= outer || outer <= inner:
		gain = p.cone.OuterGain
	default:
		t := (angle - inner) / (outer - inner)
		gain = 1 + t*(p.cone.OuterGain-1)
	}

	return 1 - p.directionalAttenuation*(1-gain)
}

// panGains returns the left and right gains for a balance in [-1, 1]
func panGains(pan float32) (left, right float32) {
	if pan > 1 {
		pan = 1
	}
	if pan < -1 {
		pan = -1
	}
	left, right = 1, 1
	if pan > 0 {
		left = 1 - pan
	} else {
		right = 1 + pan
	}
	return left, right
}
