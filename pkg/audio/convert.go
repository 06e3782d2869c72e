// ABOUTME: Sample and time conversion helpers
// ABOUTME: Converts between PCM sample encodings and microsecond offsets
package audio

import (
	"math"
	"time"
)

// SampleFromFloat32 converts a float sample in [-1, 1] to int16 with clipping
func SampleFromFloat32(f float32) int16 {
	v := float64(f) * 32767
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// SampleToFloat32 converts an int16 sample to a float in [-1, 1)
func SampleToFloat32(s int16) float32 {
	return float32(s) / 32768
}

// SampleFromInt32 narrows a sample of the given bit depth to int16
func SampleFromInt32(s int32, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		return int16(s >> (bitDepth - 16))
	case bitDepth < 16:
		return int16(s << (16 - bitDepth))
	default:
		return int16(s)
	}
}

// ClampInt16 saturates v to the int16 range
func ClampInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// MicrosToDuration converts integer microseconds to a time.Duration.
// Exact for |us| <= math.MaxInt64/1000.
func MicrosToDuration(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

// DurationToMicros converts a time.Duration to integer microseconds,
// truncating toward zero.
func DurationToMicros(d time.Duration) int64 {
	return d.Microseconds()
}

// FramesToDuration returns the playback time of frames at sampleRate
func FramesToDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	sec := frames / int64(sampleRate)
	rem := frames % int64(sampleRate)
	return time.Duration(sec)*time.Second + time.Duration(rem)*time.Second/time.Duration(sampleRate)
}

// DurationToFrames returns the frame index reached after d at sampleRate
func DurationToFrames(d time.Duration, sampleRate int) int64 {
	sec := int64(d / time.Second)
	rem := int64(d % time.Second)
	return sec*int64(sampleRate) + rem*int64(sampleRate)/int64(time.Second)
}
