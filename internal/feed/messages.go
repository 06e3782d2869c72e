// ABOUTME: Feed wire messages
// ABOUTME: JSON header, control and event payloads exchanged on the feed socket
package feed

import "errors"

// Path is the HTTP path the feed is served on
const Path = "/pcm"

// InfoPath serves a JSON Info document
const InfoPath = "/info"

// ErrClosed is returned by Client operations after Close
var ErrClosed = errors.New("feed closed")

// Header describes the audio that follows
type Header struct {
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Codec      string `json:"codec,omitempty"`
	DurationUs int64  `json:"duration_us,omitempty"`
	Title      string `json:"title,omitempty"`
}

// Control is sent by the client
type Control struct {
	SeekUs *int64 `json:"seek_us,omitempty"`
}

// Event is sent by the server after the header
type Event struct {
	SeekedUs *int64 `json:"seeked_us,omitempty"`
	End      bool   `json:"end,omitempty"`
}

// Info summarizes a feed without opening a socket
type Info struct {
	Title      string   `json:"title,omitempty"`
	SampleRate int      `json:"sample_rate"`
	Channels   int      `json:"channels"`
	DurationUs int64    `json:"duration_us,omitempty"`
	Codecs     []string `json:"codecs"`
	Listeners  int      `json:"listeners"`
}
