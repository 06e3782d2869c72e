// Package player plays a decode.Track through a soundstream.CustomSoundStream.
//
// The Player is the user data handed to the producer and seek callbacks, so
// the callbacks are plain functions that recover it from the opaque context.
// Any Track works: decoded files, a network feed client, or the built in
// test Tone.
package player
