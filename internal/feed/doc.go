// ABOUTME: WebSocket PCM feed server and client
// ABOUTME: Streams decoded tracks to remote players with seek support
// Package feed serves decoded audio tracks over WebSocket and reads them
// back on the player side.
//
// Wire format, at Path:
//
//   - The server first sends a JSON text frame with the Header.
//   - Audio follows as binary frames: little-endian interleaved 16-bit PCM,
//     or one Opus packet per frame when the client asked for ?codec=opus.
//   - The client may send {"seek_us": N} at any time. The server answers
//     with {"seeked_us": N}; audio frames sent before the answer belong to
//     the old position.
//   - At the end of the track the server sends {"end": true} and waits for
//     a seek or for the client to hang up.
//
// Client implements decode.Track, so a feed can be played the same way as
// a local file.
package feed
