// ABOUTME: CustomSoundStream forwarding adapter
// ABOUTME: Forwards engine pulls and seeks to user callbacks with an opaque user value
package soundstream

import (
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/stream"
	"github.com/rs/zerolog/log"
)

// GetDataFunc fills chunk with the next samples and reports whether more follow
type GetDataFunc func(chunk *stream.Chunk, userData any) bool

// SeekFunc moves the data cursor to offset, in microseconds. It may be nil.
type SeekFunc func(offset int64, userData any)

// CustomSoundStream is a stream whose data comes from user callbacks
type CustomSoundStream struct {
	stream    *stream.Stream
	onGetData GetDataFunc
	onSeek    SeekFunc
	userData  any
}

// New creates a stream with fixed channel count and sample rate
func New(onGetData GetDataFunc, onSeek SeekFunc, channelCount, sampleRate uint, userData any, opts ...stream.Option) *CustomSoundStream {
	s := &CustomSoundStream{
		onGetData: onGetData,
		onSeek:    onSeek,
		userData:  userData,
	}
	s.stream = stream.New(s, channelCount, sampleRate, opts...)
	return s
}

// Destroy stops playback and releases the engine. The stream must not be
// used afterwards.
func (s *CustomSoundStream) Destroy() {
	if err := s.stream.Close(); err != nil {
		log.Warn().Err(err).Msg("closing sound stream output")
	}
}

// OnGetData is invoked by the engine when it needs more audio
func (s *CustomSoundStream) OnGetData(chunk *stream.Chunk) bool {
	return s.onGetData(chunk, s.userData)
}

// OnSeek is invoked by the engine to reposition the data source
func (s *CustomSoundStream) OnSeek(offset time.Duration) {
	if s.onSeek == nil {
		return
	}
	s.onSeek(audio.DurationToMicros(offset), s.userData)
}

// Play starts, resumes or restarts playback
func (s *CustomSoundStream) Play() {
	s.stream.Play()
}

// Pause pauses playback
func (s *CustomSoundStream) Pause() {
	s.stream.Pause()
}

// Stop stops playback and rewinds
func (s *CustomSoundStream) Stop() {
	s.stream.Stop()
}

// Status returns the playback status
func (s *CustomSoundStream) Status() audio.Status {
	return s.stream.Status()
}

// ChannelCount returns the channel count given at creation
func (s *CustomSoundStream) ChannelCount() uint {
	return s.stream.ChannelCount()
}

// SampleRate returns the sample rate given at creation
func (s *CustomSoundStream) SampleRate() uint {
	return s.stream.SampleRate()
}

// ChannelMap returns the speaker layout
func (s *CustomSoundStream) ChannelMap() []audio.Channel {
	return s.stream.ChannelMap()
}

// SetPitch sets the pitch multiplier
func (s *CustomSoundStream) SetPitch(pitch float32) {
	s.stream.SetPitch(pitch)
}

// Pitch returns the pitch multiplier
func (s *CustomSoundStream) Pitch() float32 {
	return s.stream.Pitch()
}

// SetVolume sets the volume, 0 to 100
func (s *CustomSoundStream) SetVolume(volume float32) {
	s.stream.SetVolume(volume)
}

// Volume returns the volume, 0 to 100
func (s *CustomSoundStream) Volume() float32 {
	return s.stream.Volume()
}

// SetPan sets the stereo pan, -1 to 1
func (s *CustomSoundStream) SetPan(pan float32) {
	s.stream.SetPan(pan)
}

// Pan returns the stereo pan
func (s *CustomSoundStream) Pan() float32 {
	return s.stream.Pan()
}

// SetSpatializationEnabled toggles 3D spatialization
func (s *CustomSoundStream) SetSpatializationEnabled(enabled bool) {
	s.stream.SetSpatializationEnabled(enabled)
}

// SpatializationEnabled reports whether 3D spatialization is on
func (s *CustomSoundStream) SpatializationEnabled() bool {
	return s.stream.SpatializationEnabled()
}

// SetPosition sets the 3D position
func (s *CustomSoundStream) SetPosition(position audio.Vector3) {
	s.stream.SetPosition(position)
}

// Position returns the 3D position
func (s *CustomSoundStream) Position() audio.Vector3 {
	return s.stream.Position()
}

// SetDirection sets the facing direction
func (s *CustomSoundStream) SetDirection(direction audio.Vector3) {
	s.stream.SetDirection(direction)
}

// Direction returns the facing direction
func (s *CustomSoundStream) Direction() audio.Vector3 {
	return s.stream.Direction()
}

// SetCone sets the directional cone
func (s *CustomSoundStream) SetCone(cone audio.Cone) {
	s.stream.SetCone(cone)
}

// Cone returns the directional cone
func (s *CustomSoundStream) Cone() audio.Cone {
	return s.stream.Cone()
}

// SetVelocity sets the velocity used for doppler
func (s *CustomSoundStream) SetVelocity(velocity audio.Vector3) {
	s.stream.SetVelocity(velocity)
}

// Velocity returns the velocity
func (s *CustomSoundStream) Velocity() audio.Vector3 {
	return s.stream.Velocity()
}

// SetDopplerFactor sets the doppler factor
func (s *CustomSoundStream) SetDopplerFactor(factor float32) {
	s.stream.SetDopplerFactor(factor)
}

// DopplerFactor returns the doppler factor
func (s *CustomSoundStream) DopplerFactor() float32 {
	return s.stream.DopplerFactor()
}

// SetDirectionalAttenuationFactor sets the attenuation applied outside the cone
func (s *CustomSoundStream) SetDirectionalAttenuationFactor(factor float32) {
	s.stream.SetDirectionalAttenuationFactor(factor)
}

// DirectionalAttenuationFactor returns the attenuation applied outside the cone
func (s *CustomSoundStream) DirectionalAttenuationFactor() float32 {
	return s.stream.DirectionalAttenuationFactor()
}

// SetRelativeToListener makes the position relative to the listener
func (s *CustomSoundStream) SetRelativeToListener(relative bool) {
	s.stream.SetRelativeToListener(relative)
}

// RelativeToListener reports whether the position is listener relative
func (s *CustomSoundStream) RelativeToListener() bool {
	return s.stream.RelativeToListener()
}

// SetMinDistance sets the distance below which volume is maximal
func (s *CustomSoundStream) SetMinDistance(distance float32) {
	s.stream.SetMinDistance(distance)
}

// MinDistance returns the minimum distance
func (s *CustomSoundStream) MinDistance() float32 {
	return s.stream.MinDistance()
}

// SetMaxDistance sets the distance beyond which attenuation stops
func (s *CustomSoundStream) SetMaxDistance(distance float32) {
	s.stream.SetMaxDistance(distance)
}

// MaxDistance returns the maximum distance
func (s *CustomSoundStream) MaxDistance() float32 {
	return s.stream.MaxDistance()
}

// SetMinGain sets the lower gain bound
func (s *CustomSoundStream) SetMinGain(gain float32) {
	s.stream.SetMinGain(gain)
}

// MinGain returns the lower gain bound
func (s *CustomSoundStream) MinGain() float32 {
	return s.stream.MinGain()
}

// SetMaxGain sets the upper gain bound
func (s *CustomSoundStream) SetMaxGain(gain float32) {
	s.stream.SetMaxGain(gain)
}

// MaxGain returns the upper gain bound
func (s *CustomSoundStream) MaxGain() float32 {
	return s.stream.MaxGain()
}

// SetAttenuation sets the distance attenuation factor
func (s *CustomSoundStream) SetAttenuation(attenuation float32) {
	s.stream.SetAttenuation(attenuation)
}

// Attenuation returns the distance attenuation factor
func (s *CustomSoundStream) Attenuation() float32 {
	return s.stream.Attenuation()
}

// SetPlayingOffset seeks to offset, in microseconds
func (s *CustomSoundStream) SetPlayingOffset(offset int64) {
	s.stream.SetPlayingOffset(audio.MicrosToDuration(offset))
}

// PlayingOffset returns the playback position in microseconds
func (s *CustomSoundStream) PlayingOffset() int64 {
	return audio.DurationToMicros(s.stream.PlayingOffset())
}

// SetLoop sets whether the stream restarts at its end
func (s *CustomSoundStream) SetLoop(loop bool) {
	s.stream.SetLoop(loop)
}

// Loop reports whether looping is on
func (s *CustomSoundStream) Loop() bool {
	return s.stream.Loop()
}
