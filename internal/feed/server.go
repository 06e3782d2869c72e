// ABOUTME: Feed server
// ABOUTME: Upgrades listeners to WebSocket and streams a fresh track to each
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/encode"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/resample"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// opusRate is the rate Opus feeds are encoded at
const opusRate = 48000

// TrackOpener opens a new instance of the served track
type TrackOpener func() (decode.Track, error)

// Config holds server configuration
type Config struct {
	Title string

	// ChunkDuration is the audio carried by each PCM frame (default 20ms)
	ChunkDuration time.Duration

	// Realtime paces frames at playback speed; otherwise the client's read
	// rate sets the pace
	Realtime bool

	// AllowOpus lets clients request Opus encoding
	AllowOpus bool

	Logger *zerolog.Logger
}

// Server streams tracks to WebSocket listeners
type Server struct {
	open     TrackOpener
	config   Config
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	router   *httprouter.Router

	mu     sync.Mutex
	conns  map[string]*websocket.Conn
	closed bool
	wg     sync.WaitGroup
}

// NewServer creates a feed server. Each listener gets its own track.
func NewServer(open TrackOpener, config Config) *Server {
	if config.ChunkDuration <= 0 {
		config.ChunkDuration = 20 * time.Millisecond
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	s := &Server{
		open:   open,
		config: config,
		logger: logger.With().Str("component", "feed").Logger(),
		upgrader: websocket.Upgrader{
			// Feeds are meant for trusted local networks
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		router: httprouter.New(),
		conns:  make(map[string]*websocket.Conn),
	}
	s.router.GET(Path, s.handleFeed)
	s.router.GET(InfoPath, s.handleInfo)
	return s
}

// Handler returns the HTTP handler serving Path and InfoPath
func (s *Server) Handler() http.Handler {
	return s.router
}

// Codecs lists the codecs listeners may request
func (s *Server) Codecs() []string {
	if s.config.AllowOpus {
		return []string{"pcm", "opus"}
	}
	return []string{"pcm"}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	track, err := s.open()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to open track for info")
		http.Error(w, "track unavailable", http.StatusInternalServerError)
		return
	}
	format := track.Format()
	duration := track.Duration()
	track.Close()

	info := Info{
		Title:      s.config.Title,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		DurationUs: audio.DurationToMicros(duration),
		Codecs:     s.Codecs(),
		Listeners:  s.Listeners(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write info")
	}
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	s.logger.Info().Str("addr", addr).Str("path", Path).Msg("feed listening")

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("feed shutting down")
	case serverErr = <-errChan:
	}

	s.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("HTTP server shutdown error")
	}

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Listeners returns the number of connected listeners
func (s *Server) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close disconnects every listener and waits for their sessions to end
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	logger := s.logger.With().
		Str("listener", id).
		Str("remote", r.RemoteAddr).
		Str("agent", r.UserAgent()).
		Logger()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.conns[id] = conn
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		s.wg.Done()
		logger.Info().Msg("listener disconnected")
	}()

	codec := r.URL.Query().Get("codec")
	if codec == "" {
		codec = "pcm"
	}
	if codec != "pcm" && !(codec == "opus" && s.config.AllowOpus) {
		logger.Warn().Str("codec", codec).Msg("rejecting unsupported codec")
		closeWith(conn, websocket.CloseUnsupportedData, "unsupported codec")
		return
	}

	track, err := s.open()
	if err != nil {
		logger.Error().Err(err).Msg("failed to open track")
		closeWith(conn, websocket.CloseInternalServerErr, "track unavailable")
		return
	}
	defer track.Close()

	sess, err := newSession(conn, track, codec, s.config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start session")
		closeWith(conn, websocket.CloseInternalServerErr, "encoder unavailable")
		return
	}
	defer sess.close()

	logger.Info().Str("codec", codec).Stringer("format", track.Format()).Msg("listener connected")
	sess.run(r.Context())
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

// session streams one track to one listener. Only run writes to conn.
type session struct {
	conn    *websocket.Conn
	track   decode.Track
	format  audio.Format
	codec   string
	config  Config
	logger  zerolog.Logger
	encoder encode.Encoder

	// Opus only
	resampler *resample.Resampler
	ratio     float64
	pending   []int16
	scratch   []int16

	seeks chan int64
	done  chan struct{} // closed when the client stops reading
	quit  chan struct{} // closed when run returns
}

func newSession(conn *websocket.Conn, track decode.Track, codec string, config Config, logger zerolog.Logger) (*session, error) {
	format := track.Format()
	sess := &session{
		conn:   conn,
		track:  track,
		format: format,
		codec:  codec,
		config: config,
		logger: logger,
		seeks:  make(chan int64, 8),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}

	wire := audio.Format{Codec: codec, SampleRate: format.SampleRate, Channels: format.Channels, BitDepth: 16}
	if codec == "opus" {
		wire.SampleRate = opusRate
		if format.SampleRate != opusRate {
			sess.resampler = resample.New(format.Channels)
			sess.ratio = resample.Ratio(format.SampleRate, opusRate)
		}
	}

	enc, err := encode.NewEncoder(wire)
	if err != nil {
		return nil, err
	}
	sess.encoder = enc
	return sess, nil
}

func (s *session) header() Header {
	rate := s.format.SampleRate
	if s.codec == "opus" {
		rate = opusRate
	}
	return Header{
		SampleRate: rate,
		Channels:   s.format.Channels,
		Codec:      s.codec,
		DurationUs: audio.DurationToMicros(s.track.Duration()),
		Title:      s.config.Title,
	}
}

func (s *session) run(ctx context.Context) {
	defer close(s.quit)

	if err := s.conn.WriteJSON(s.header()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send header")
		return
	}

	go s.readControl()

	var ticker *time.Ticker
	if s.config.Realtime {
		ticker = time.NewTicker(s.config.ChunkDuration)
		defer ticker.Stop()
	}

	frames := max(int(audio.DurationToFrames(s.config.ChunkDuration, s.format.SampleRate)), 1)
	buf := make([]int16, frames*max(s.format.Channels, 1))
	ended := false

	for {
		if ended {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case us := <-s.seeks:
				if err := s.seek(us); err != nil {
					return
				}
				ended = false
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case us := <-s.seeks:
			if err := s.seek(us); err != nil {
				return
			}
			continue
		default:
		}

		n, err := s.track.Read(buf)
		if n > 0 {
			if werr := s.send(buf[:n]); werr != nil {
				s.logger.Debug().Err(werr).Msg("write failed")
				return
			}
		}
		if err == io.EOF {
			if werr := s.flush(); werr != nil {
				return
			}
			if werr := s.conn.WriteJSON(Event{End: true}); werr != nil {
				return
			}
			s.logger.Debug().Msg("end of track")
			ended = true
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("track read failed")
			closeWith(s.conn, websocket.CloseInternalServerErr, "decode error")
			return
		}

		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

// readControl handles client messages until the connection drops
func (s *session) readControl() {
	defer close(s.done)

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var ctrl Control
		if err := json.Unmarshal(data, &ctrl); err != nil {
			s.logger.Warn().Err(err).Msg("invalid control message")
			continue
		}
		if ctrl.SeekUs != nil {
			select {
			case s.seeks <- *ctrl.SeekUs:
			case <-s.quit:
				return
			}
		}
	}
}

func (s *session) seek(us int64) error {
	if err := s.track.Seek(audio.MicrosToDuration(us)); err != nil {
		s.logger.Warn().Err(err).Int64("offset_us", us).Msg("seek failed")
	}
	if s.resampler != nil {
		s.resampler.Reset()
	}
	s.pending = s.pending[:0]

	s.logger.Debug().Int64("offset_us", us).Msg("seeked")
	return s.conn.WriteJSON(Event{SeekedUs: &us})
}

// send encodes samples and writes them as binary frames
func (s *session) send(samples []int16) error {
	frameSize := s.encoder.FrameSamples()
	if frameSize == 0 {
		data, err := s.encoder.Encode(samples)
		if err != nil {
			return err
		}
		return s.conn.WriteMessage(websocket.BinaryMessage, data)
	}

	if s.resampler != nil {
		s.scratch = s.resampler.Process(s.ratio, samples, s.scratch[:0])
		samples = s.scratch
	}
	s.pending = append(s.pending, samples...)

	for len(s.pending) >= frameSize {
		if err := s.writeFrame(s.pending[:frameSize]); err != nil {
			return err
		}
		s.pending = s.pending[frameSize:]
	}
	return nil
}

// flush pads and sends any partial Opus frame
func (s *session) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	frame := make([]int16, s.encoder.FrameSamples())
	copy(frame, s.pending)
	s.pending = s.pending[:0]
	return s.writeFrame(frame)
}

func (s *session) writeFrame(frame []int16) error {
	data, err := s.encoder.Encode(frame)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *session) close() {
	s.encoder.Close()
}
