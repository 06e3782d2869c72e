// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, playback status and spatial types
package audio

import (
	"fmt"
	"math"
)

// Format describes a PCM stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameSize returns the number of interleaved samples in one frame
func (f Format) FrameSize() int {
	return f.Channels
}

// String implements fmt.Stringer
func (f Format) String() string {
	return fmt.Sprintf("%s %dHz %dch %dbit", f.Codec, f.SampleRate, f.Channels, f.BitDepth)
}

// Status is the playback state of a stream
type Status int

const (
	Stopped Status = iota
	Paused
	Playing
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Vector3 is a point or direction in the engine's world space
type Vector3 struct {
	X, Y, Z float32
}

// Sub returns v - o
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Dot returns the dot product of v and o
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length of v
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length, or the zero vector
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return Vector3{v.X / l, v.Y / l, v.Z / l}
}

// Cone describes the directional emission of a source.
// Angles are in degrees.
type Cone struct {
	InnerAngle float32
	OuterAngle float32
	OuterGain  float32
}

// Channel identifies a speaker position in a channel map
type Channel int

const (
	ChannelUnspecified Channel = iota
	ChannelMono
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
	ChannelFrontLeftOfCenter
	ChannelFrontRightOfCenter
	ChannelLowFrequencyEffects
	ChannelBackLeft
	ChannelBackRight
	ChannelBackCenter
	ChannelSideLeft
	ChannelSideRight
	ChannelTopCenter
	ChannelTopFrontLeft
	ChannelTopFrontRight
	ChannelTopFrontCenter
	ChannelTopBackLeft
	ChannelTopBackRight
	ChannelTopBackCenter
)

// DefaultChannelMap returns the conventional speaker layout for a channel count
func DefaultChannelMap(channels int) []Channel {
	switch channels {
	case 1:
		return []Channel{ChannelMono}
	case 2:
		return []Channel{ChannelFrontLeft, ChannelFrontRight}
	case 3:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter}
	case 4:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelBackLeft, ChannelBackRight}
	case 5:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelBackLeft, ChannelBackRight}
	case 6:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLowFrequencyEffects, ChannelBackLeft, ChannelBackRight}
	case 7:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLowFrequencyEffects, ChannelBackCenter, ChannelSideLeft, ChannelSideRight}
	case 8:
		return []Channel{ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLowFrequencyEffects, ChannelBackLeft, ChannelBackRight, ChannelSideLeft, ChannelSideRight}
	}

	m := make([]Channel, channels)
	for i := range m {
		m[i] = ChannelUnspecified
	}
	return m
}
