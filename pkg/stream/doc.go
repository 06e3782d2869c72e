// ABOUTME: Real-time streaming playback engine
// ABOUTME: Pulls PCM chunks from a Source on its own goroutine and plays them
// Package stream implements the playback engine behind custom sound streams.
//
// A Stream owns a streaming goroutine that repeatedly asks its Source for
// the next Chunk of interleaved 16-bit samples, mixes it (pitch, volume,
// distance attenuation, pan) and writes it to an output.Output. Seeks are
// delivered to the Source on the same goroutine, just before the next pull.
//
// Status transitions:
//
//	Stopped --Play--> Playing --Pause--> Paused --Play--> Playing
//	any --Stop--> Stopped
//	Playing --end of data, loop off--> Stopped
//
// With loop enabled, an end of data triggers Source.OnSeek(0) and pulling
// continues.
//
// Source callbacks run on the engine goroutine and must not call Play, Stop
// or Close on the same stream.
package stream
