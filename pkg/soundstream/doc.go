// ABOUTME: Callback-driven custom sound streams
// ABOUTME: Adapts a pair of plain callbacks to the pull-based stream engine
// Package soundstream lets callers feed raw 16-bit PCM to the playback
// engine through two callbacks and an opaque user value.
//
// The engine pulls data on its own goroutine by calling the GetDataFunc,
// and asks for repositioning through the SeekFunc with an offset in
// microseconds. Both callbacks receive the user value given at creation;
// it is stored and passed through, never inspected.
//
//	type player struct {
//	    samples []int16
//	    cursor  int
//	}
//
//	getData := func(chunk *stream.Chunk, userData any) bool {
//	    p := userData.(*player)
//	    n := min(4096, len(p.samples)-p.cursor)
//	    chunk.Samples = p.samples[p.cursor : p.cursor+n]
//	    chunk.SampleCount = uint(n)
//	    p.cursor += n
//	    return p.cursor < len(p.samples)
//	}
//	seek := func(offsetUs int64, userData any) {
//	    p := userData.(*player)
//	    p.cursor = int(offsetUs * 44100 / 1_000_000) * 2
//	}
//
//	s := soundstream.New(getData, seek, 2, 44100, &player{samples: pcm})
//	defer s.Destroy()
//	s.Play()
//
// A CustomSoundStream must be released with exactly one Destroy call; it
// is not cleaned up automatically. Callbacks run on the engine goroutine,
// must not block indefinitely and must not call Play, Stop or Destroy on
// their own stream. Nothing synchronizes the user value between the
// callbacks and the controlling goroutine; that is up to the caller.
//
// The handle functions (Create, Play, SetVolume, ...) expose the same
// operations over opaque Handle values for callers that cannot hold Go
// pointers.
package soundstream
