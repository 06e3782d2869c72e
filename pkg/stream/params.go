// ABOUTME: Sound source parameters of a stream
// ABOUTME: Pitch, volume, pan and spatialization accessors
package stream

import (
	"math"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
)

type params struct {
	pitch                  float32
	volume                 float32
	pan                    float32
	spatialization         bool
	position               audio.Vector3
	direction              audio.Vector3
	velocity               audio.Vector3
	cone                   audio.Cone
	relativeToListener     bool
	minDistance            float32
	maxDistance            float32
	minGain                float32
	maxGain                float32
	attenuation            float32
	dopplerFactor          float32
	directionalAttenuation float32
}

func defaultParams() params {
	return params{
		pitch:                  1,
		volume:                 100,
		spatialization:         true,
		direction:              audio.Vector3{Z: -1},
		cone:                   audio.Cone{InnerAngle: 360, OuterAngle: 360, OuterGain: 1},
		minDistance:            1,
		maxDistance:            math.MaxFloat32,
		minGain:                0,
		maxGain:                1,
		attenuation:            1,
		dopplerFactor:          1,
		directionalAttenuation: 1,
	}
}

// SetPitch sets the playback speed factor (1 is unchanged)
func (s *Stream) SetPitch(pitch float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.pitch = pitch
}

// Pitch returns the playback speed factor
func (s *Stream) Pitch() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.pitch
}

// SetVolume sets the volume in the range 0-100
func (s *Stream) SetVolume(volume float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.volume = volume
}

// Volume returns the volume
func (s *Stream) Volume() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.volume
}

// SetPan sets the stereo balance in the range -1 (left) to 1 (right)
func (s *Stream) SetPan(pan float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.pan = pan
}

// Pan returns the stereo balance
func (s *Stream) Pan() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.pan
}

// SetSpatializationEnabled toggles distance and cone attenuation
func (s *Stream) SetSpatializationEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.spatialization = enabled
}

// SpatializationEnabled reports whether spatialization is applied
func (s *Stream) SpatializationEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.spatialization
}

// SetPosition sets the position of the source in world space
func (s *Stream) SetPosition(position audio.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.position = position
}

// Position returns the position of the source
func (s *Stream) Position() audio.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.position
}

// SetDirection sets the direction the source's cone points to
func (s *Stream) SetDirection(direction audio.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.direction = direction
}

// Direction returns the cone direction
func (s *Stream) Direction() audio.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.direction
}

// SetCone sets the directional emission cone
func (s *Stream) SetCone(cone audio.Cone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.cone = cone
}

// Cone returns the directional emission cone
func (s *Stream) Cone() audio.Cone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.cone
}

// SetVelocity sets the source velocity. It is stored for callers and not
// used in mixing.
func (s *Stream) SetVelocity(velocity audio.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.velocity = velocity
}

// Velocity returns the source velocity
func (s *Stream) Velocity() audio.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.velocity
}

// SetDopplerFactor sets the doppler factor. Stored, not used in mixing.
func (s *Stream) SetDopplerFactor(factor float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.dopplerFactor = factor
}

// DopplerFactor returns the doppler factor
func (s *Stream) DopplerFactor() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.dopplerFactor
}

// SetDirectionalAttenuationFactor scales how strongly the cone attenuates
func (s *Stream) SetDirectionalAttenuationFactor(factor float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.directionalAttenuation = factor
}

// DirectionalAttenuationFactor returns the cone attenuation factor
func (s *Stream) DirectionalAttenuationFactor() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.directionalAttenuation
}

// SetRelativeToListener makes the position relative to the listener
func (s *Stream) SetRelativeToListener(relative bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.relativeToListener = relative
}

// RelativeToListener reports whether the position is listener-relative
func (s *Stream) RelativeToListener() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.relativeToListener
}

// SetMinDistance sets the distance under which the source is heard at full volume
func (s *Stream) SetMinDistance(distance float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.minDistance = distance
}

// MinDistance returns the minimum distance
func (s *Stream) MinDistance() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.minDistance
}

// SetMaxDistance sets the distance beyond which attenuation stops increasing
func (s *Stream) SetMaxDistance(distance float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.maxDistance = distance
}

// MaxDistance returns the maximum distance
func (s *Stream) MaxDistance() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.maxDistance
}

// SetMinGain sets the lower bound of the distance gain
func (s *Stream) SetMinGain(gain float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.minGain = gain
}

// MinGain returns the lower bound of the distance gain
func (s *Stream) MinGain() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.minGain
}

// SetMaxGain sets the upper bound of the distance gain
func (s *Stream) SetMaxGain(gain float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.maxGain = gain
}

// MaxGain returns the upper bound of the distance gain
func (s *Stream) MaxGain() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.maxGain
}

// SetAttenuation sets how fast the sound fades with distance (0 disables)
func (s *Stream) SetAttenuation(attenuation float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.attenuation = attenuation
}

// Attenuation returns the attenuation factor
func (s *Stream) Attenuation() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.attenuation
}
