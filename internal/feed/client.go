// ABOUTME: Feed client
// ABOUTME: Buffers decoded frames from a feed server and serves them as a Track
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/version"
	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ClientConfig holds client configuration
type ClientConfig struct {
	// Addr is host:port or a full ws:// URL
	Addr string

	// Codec requested from the server, "pcm" or "opus"
	Codec string

	// Buffer bounds how much decoded audio is held ahead of the reader
	// (default 2s)
	Buffer time.Duration

	Logger *zerolog.Logger
}

var _ decode.Track = (*Client)(nil)

// Client reads a feed. It implements decode.Track.
type Client struct {
	conn    *websocket.Conn
	header  Header
	decoder decode.Decoder
	logger  zerolog.Logger
	writeMu sync.Mutex

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []int16
	maxQueue int
	stale    int // seeks sent but not yet acknowledged
	ended    bool
	closed   bool
	err      error
	done     chan struct{}
}

// Dial connects to a feed server and reads its header
func Dial(ctx context.Context, config ClientConfig) (*Client, error) {
	u, err := feedURL(config.Addr, config.Codec)
	if err != nil {
		return nil, err
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	logger = logger.With().Str("component", "feed-client").Str("url", u).Logger()

	reqHeader := http.Header{}
	reqHeader.Set("User-Agent", version.UserAgent("soundstream-play"))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, reqHeader)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var header Header
	if err := conn.ReadJSON(&header); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	if header.Codec == "" {
		header.Codec = "pcm"
	}
	if header.SampleRate <= 0 || header.Channels <= 0 {
		conn.Close()
		return nil, fmt.Errorf("invalid header: %d Hz, %d channels", header.SampleRate, header.Channels)
	}

	dec, err := decode.NewDecoder(audio.Format{
		Codec:      header.Codec,
		SampleRate: header.SampleRate,
		Channels:   header.Channels,
		BitDepth:   16,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	buffer := config.Buffer
	if buffer <= 0 {
		buffer = 2 * time.Second
	}

	c := &Client{
		conn:     conn,
		header:   header,
		decoder:  dec,
		logger:   logger,
		maxQueue: int(audio.DurationToFrames(buffer, header.SampleRate)) * header.Channels,
		done:     make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)

	logger.Info().
		Str("codec", header.Codec).
		Int("sample_rate", header.SampleRate).
		Int("channels", header.Channels).
		Msg("connected to feed")

	go c.readMessages()
	return c, nil
}

func feedURL(addr, codec string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid feed address: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = Path
	}
	if codec != "" {
		q := u.Query()
		q.Set("codec", codec)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Header returns the header sent by the server
func (c *Client) Header() Header {
	return c.header
}

// Format describes the decoded samples
func (c *Client) Format() audio.Format {
	return audio.Format{
		Codec:      c.header.Codec,
		SampleRate: c.header.SampleRate,
		Channels:   c.header.Channels,
		BitDepth:   16,
	}
}

// Duration returns the track length announced by the server
func (c *Client) Duration() time.Duration {
	return audio.MicrosToDuration(c.header.DurationUs)
}

// Buffered returns the number of decoded samples waiting to be read
func (c *Client) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Read blocks until samples are available. It returns io.EOF at the end
// of the track and ErrClosed after Close.
func (c *Client) Read(dst []int16) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.queue) == 0 && !c.ended && !c.closed && c.err == nil {
		c.cond.Wait()
	}

	switch {
	case c.closed:
		return 0, ErrClosed
	case len(c.queue) > 0:
		n := copy(dst, c.queue)
		c.queue = c.queue[n:]
		c.cond.Broadcast()
		return n, nil
	case c.err != nil:
		return 0, c.err
	default:
		return 0, io.EOF
	}
}

// Seek asks the server to reposition. Buffered audio is discarded.
func (c *Client) Seek(offset time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.queue = nil
	c.ended = false
	c.stale++
	c.cond.Broadcast()
	c.mu.Unlock()

	us := audio.DurationToMicros(offset)
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(Control{SeekUs: &us}); err != nil {
		return fmt.Errorf("failed to send seek: %w", err)
	}
	return nil
}

// Close disconnects from the server and unblocks readers
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()

	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.done
	c.decoder.Close()
	return err
}

// readMessages decodes incoming frames until the connection drops
func (c *Client) readMessages() {
	defer close(c.done)

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if !c.closed && c.err == nil {
				c.err = fmt.Errorf("feed connection lost: %w", err)
				c.logger.Warn().Err(err).Msg("feed connection lost")
			}
			c.cond.Broadcast()
			c.mu.Unlock()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			c.handleAudio(data)
		case websocket.TextMessage:
			c.handleEvent(data)
		}
	}
}

func (c *Client) handleAudio(data []byte) {
	pcm, err := c.decoder.Decode(data)
	if err != nil {
		c.logger.Warn().Err(err).Msg("decode error")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.queue) >= c.maxQueue && c.stale == 0 && !c.closed {
		c.cond.Wait()
	}
	if c.stale > 0 || c.closed {
		return
	}
	c.queue = append(c.queue, pcm...)
	c.cond.Broadcast()
}

func (c *Client) handleEvent(data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		c.logger.Warn().Err(err).Msg("invalid feed event")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.SeekedUs != nil && c.stale > 0 {
		c.stale--
		c.logger.Debug().Int64("offset_us", *ev.SeekedUs).Msg("seek acknowledged")
	}
	if ev.End && c.stale == 0 {
		c.ended = true
		c.logger.Debug().Msg("end of feed")
	}
	c.cond.Broadcast()
}
