// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between sample rates and playback speeds
// Package resample provides streaming linear-interpolation resampling of
// interleaved 16-bit PCM.
//
// A Resampler keeps the last input frame of each call so consecutive
// chunks join without clicks. The ratio is input frames consumed per
// output frame and may change between calls; pitch shifting passes the
// pitch, rate conversion passes Ratio(inputRate, outputRate).
//
// Example:
//
//	r := resample.New(2)
//	out = r.Process(resample.Ratio(44100, 48000), in, out[:0])
package resample
