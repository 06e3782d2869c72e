// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Status, spatial vectors and sample/time conversions
// Package audio provides fundamental audio types shared by the engine, the
// stream adapter and the decoders.
//
// This package defines:
//   - Format: sample rate, channel count and bit depth of a PCM stream
//   - Status: playback state of a stream (Stopped, Paused, Playing)
//   - Vector3 and Cone: spatial parameters of a sound source
//   - Channel: speaker positions used in channel maps
//
// It also provides conversions between sample representations and between
// integer microseconds and time.Duration:
//
//	d := audio.MicrosToDuration(1_500_000) // 1.5s
//	us := audio.DurationToMicros(d)         // 1500000
package audio
