// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface with oto, PortAudio and discard sinks
// Package output provides audio device sinks for the streaming engine.
//
// Implementations:
//   - Oto: cross-platform playback through ebitengine/oto (default)
//   - PortAudio: callback-driven playback (build with -tags portaudio)
//   - Discard: drops samples, optionally pacing writes in real time;
//     used for headless runs and tests
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(44100, 2)
//	err = out.Write(samples)
package output
