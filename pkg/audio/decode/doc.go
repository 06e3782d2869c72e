// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides seekable file tracks and network frame decoders
// Package decode turns encoded audio into interleaved 16-bit PCM.
//
// Two shapes are provided. A Track is a seekable source opened from a
// file (WAV, MP3, FLAC, Ogg Vorbis) or built from samples in memory; it
// is what producer callbacks read from. A Decoder converts individual
// network frames (PCM, Opus) as they arrive.
//
// Example:
//
//	track, err := decode.Open("song.flac")
//	if err != nil {
//	    return err
//	}
//	defer track.Close()
//	n, err := track.Read(buf)
package decode
