// ABOUTME: Handle-based access to custom sound streams
// ABOUTME: Maps opaque UUID handles to streams for callers that cannot hold pointers
package soundstream

import (
	"sync"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/stream"
	"github.com/google/uuid"
)

// Handle identifies a stream created with Create
type Handle uuid.UUID

// String returns the handle in canonical UUID form
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

var registry = struct {
	sync.RWMutex
	streams map[Handle]*CustomSoundStream
}{streams: make(map[Handle]*CustomSoundStream)}

// Create makes a stream and returns its handle. Release it with Destroy.
func Create(onGetData GetDataFunc, onSeek SeekFunc, channelCount, sampleRate uint, userData any, opts ...stream.Option) Handle {
	s := New(onGetData, onSeek, channelCount, sampleRate, userData, opts...)
	h := Handle(uuid.New())

	registry.Lock()
	registry.streams[h] = s
	registry.Unlock()
	return h
}

// Lookup returns the stream behind h
func Lookup(h Handle) (*CustomSoundStream, bool) {
	registry.RLock()
	defer registry.RUnlock()
	s, ok := registry.streams[h]
	return s, ok
}

// Destroy releases the stream behind h. Unknown handles are ignored.
func Destroy(h Handle) {
	registry.Lock()
	s, ok := registry.streams[h]
	delete(registry.streams, h)
	registry.Unlock()

	if ok {
		s.Destroy()
	}
}

func with(h Handle, fn func(s *CustomSoundStream)) {
	if s, ok := Lookup(h); ok {
		fn(s)
	}
}

func get[T any](h Handle, fn func(s *CustomSoundStream) T) T {
	var zero T
	s, ok := Lookup(h)
	if !ok {
		return zero
	}
	return fn(s)
}

// Play starts or resumes the stream behind h
func Play(h Handle) { with(h, (*CustomSoundStream).Play) }

// Pause pauses the stream behind h
func Pause(h Handle) { with(h, (*CustomSoundStream).Pause) }

// Stop stops and rewinds the stream behind h
func Stop(h Handle) { with(h, (*CustomSoundStream).Stop) }

// GetStatus returns Stopped for unknown handles
func GetStatus(h Handle) audio.Status {
	return get(h, (*CustomSoundStream).Status)
}

// GetChannelCount returns 0 for unknown handles
func GetChannelCount(h Handle) uint {
	return get(h, (*CustomSoundStream).ChannelCount)
}

// GetSampleRate returns 0 for unknown handles
func GetSampleRate(h Handle) uint {
	return get(h, (*CustomSoundStream).SampleRate)
}

// SetPitch sets the pitch of the stream behind h
func SetPitch(h Handle, pitch float32) {
	with(h, func(s *CustomSoundStream) { s.SetPitch(pitch) })
}

// GetPitch returns the pitch of the stream behind h
func GetPitch(h Handle) float32 {
	return get(h, (*CustomSoundStream).Pitch)
}

// SetVolume sets the volume of the stream behind h
func SetVolume(h Handle, volume float32) {
	with(h, func(s *CustomSoundStream) { s.SetVolume(volume) })
}

// GetVolume returns the volume of the stream behind h
func GetVolume(h Handle) float32 {
	return get(h, (*CustomSoundStream).Volume)
}

// SetPosition sets the 3D position of the stream behind h
func SetPosition(h Handle, position audio.Vector3) {
	with(h, func(s *CustomSoundStream) { s.SetPosition(position) })
}

// GetPosition returns the 3D position of the stream behind h
func GetPosition(h Handle) audio.Vector3 {
	return get(h, (*CustomSoundStream).Position)
}

// SetRelativeToListener makes the position of h listener relative
func SetRelativeToListener(h Handle, relative bool) {
	with(h, func(s *CustomSoundStream) { s.SetRelativeToListener(relative) })
}

// IsRelativeToListener reports whether the position of h is listener relative
func IsRelativeToListener(h Handle) bool {
	return get(h, (*CustomSoundStream).RelativeToListener)
}

// SetMinDistance sets the minimum distance of the stream behind h
func SetMinDistance(h Handle, distance float32) {
	with(h, func(s *CustomSoundStream) { s.SetMinDistance(distance) })
}

// GetMinDistance returns the minimum distance of the stream behind h
func GetMinDistance(h Handle) float32 {
	return get(h, (*CustomSoundStream).MinDistance)
}

// SetAttenuation sets the attenuation of the stream behind h
func SetAttenuation(h Handle, attenuation float32) {
	with(h, func(s *CustomSoundStream) { s.SetAttenuation(attenuation) })
}

// GetAttenuation returns the attenuation of the stream behind h
func GetAttenuation(h Handle) float32 {
	return get(h, (*CustomSoundStream).Attenuation)
}

// SetPlayingOffset seeks the stream behind h, offset in microseconds
func SetPlayingOffset(h Handle, offset int64) {
	with(h, func(s *CustomSoundStream) { s.SetPlayingOffset(offset) })
}

// GetPlayingOffset returns the position in microseconds
func GetPlayingOffset(h Handle) int64 {
	return get(h, (*CustomSoundStream).PlayingOffset)
}

// SetLoop sets looping on the stream behind h
func SetLoop(h Handle, loop bool) {
	with(h, func(s *CustomSoundStream) { s.SetLoop(loop) })
}

// GetLoop reports whether the stream behind h loops
func GetLoop(h Handle) bool {
	return get(h, (*CustomSoundStream).Loop)
}
