// ABOUTME: Audio encoder package for encoding PCM to wire formats
// ABOUTME: Provides Encoder interface and implementations for PCM, Opus
// Package encode provides audio encoders for the network feed.
//
// Supports: PCM (16-bit and 24-bit little-endian), Opus
//
// All encoders accept interleaved int16 samples. The Opus encoder takes
// exactly one 20ms frame per call.
//
// Example:
//
//	encoder, err := encode.NewEncoder(format)
//	data, err := encoder.Encode(samples)
package encode
