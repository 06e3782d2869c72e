// ABOUTME: Stream engine lifecycle, transport and streaming loop
// ABOUTME: Delivers pulls and seeks to a Source on a dedicated goroutine
package stream

import (
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/output"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/resample"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Chunk is a run of interleaved samples handed to the engine by a Source.
// Samples is owned by the Source and must stay valid until the next pull.
type Chunk struct {
	Samples     []int16
	SampleCount uint
}

// Source is the capability set a Stream requires from its data provider
type Source interface {
	// OnGetData fills chunk with the next samples. Returning false ends
	// the stream after the returned samples are played.
	OnGetData(chunk *Chunk) bool

	// OnSeek moves the read cursor so the next OnGetData starts at offset
	OnSeek(offset time.Duration)
}

// Option configures a Stream
type Option func(*Stream)

// WithOutput sets the device the stream plays to
func WithOutput(out output.Output) Option {
	return func(s *Stream) {
		s.out = out
	}
}

// WithLogger sets the logger used by the stream
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Stream) {
		s.logger = logger
	}
}

// WithListener sets the listener used for spatialization
func WithListener(l *Listener) Option {
	return func(s *Stream) {
		s.listener = l
	}
}

// Stream is a streamed sound played on its own goroutine
type Stream struct {
	src          Source
	channelCount uint
	sampleRate   uint
	out          output.Output
	logger       zerolog.Logger
	listener     *Listener

	mu      sync.Mutex
	wake    *sync.Cond
	status  audio.Status
	params  params
	loop    bool
	outOpen bool

	// Pending seek, delivered before the next pull
	seekPending bool
	seekOffset  time.Duration

	// Playing offset is baseOffset plus the samples processed since, in frames
	baseOffset time.Duration
	processed  int64
	// Incremented on every seek or stop so in-flight chunks are not counted
	generation uint64

	stopReq bool
	done    chan struct{}

	resampler *resample.Resampler
	pitched   []int16
}

// New creates a stream pulling from src with a fixed channel count and sample rate
func New(src Source, channelCount, sampleRate uint, opts ...Option) *Stream {
	s := &Stream{
		src:          src,
		channelCount: channelCount,
		sampleRate:   sampleRate,
		logger:       log.Logger,
		listener:     DefaultListener,
		status:       audio.Stopped,
		params:       defaultParams(),
	}
	s.wake = sync.NewCond(&s.mu)

	for _, opt := range opts {
		opt(s)
	}

	if s.out == nil {
		s.out = output.NewOto()
	}

	s.logger = s.logger.With().Str("component", "stream").Logger()
	s.resampler = resample.New(int(channelCount))

	return s
}

// ChannelCount returns the number of interleaved channels
func (s *Stream) ChannelCount() uint {
	return s.channelCount
}

// SampleRate returns the number of frames per second
func (s *Stream) SampleRate() uint {
	return s.sampleRate
}

// ChannelMap returns the speaker layout of the stream's channels
func (s *Stream) ChannelMap() []audio.Channel {
	return audio.DefaultChannelMap(int(s.channelCount))
}

// Status returns the current playback status
func (s *Stream) Status() audio.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Play starts the stream if stopped, resumes it if paused and restarts it
// from the beginning if already playing.
func (s *Stream) Play() {
	s.mu.Lock()
	switch s.status {
	case audio.Paused:
		s.status = audio.Playing
		s.wake.Broadcast()
		s.mu.Unlock()
		s.logger.Debug().Msg("resumed")
		return
	case audio.Playing:
		s.mu.Unlock()
		s.Stop()
		s.mu.Lock()
	}
	prev := s.done
	s.mu.Unlock()

	// A stream that ended on its own may still be unwinding
	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != audio.Stopped {
		return
	}

	if !s.outOpen {
		if err := s.out.Open(int(s.sampleRate), int(s.channelCount)); err != nil {
			s.logger.Error().Err(err).Msg("failed to open output")
			return
		}
		s.outOpen = true
	}

	s.status = audio.Playing
	s.stopReq = false
	s.done = make(chan struct{})
	go s.run(s.done)

	s.logger.Debug().
		Uint("channels", s.channelCount).
		Uint("sample_rate", s.sampleRate).
		Msg("started")
}

// Pause pauses a playing stream; it has no effect otherwise
func (s *Stream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != audio.Playing {
		return
	}
	s.status = audio.Paused
	s.logger.Debug().Msg("paused")
}

// Stop halts playback and rewinds to the beginning. It waits for the
// streaming goroutine to finish any in-flight callback.
func (s *Stream) Stop() {
	s.mu.Lock()
	s.stopReq = true
	s.status = audio.Stopped
	s.rewind(0)
	done := s.done
	s.wake.Broadcast()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close stops the stream and releases its output
func (s *Stream) Close() error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.outOpen {
		return nil
	}
	s.outOpen = false
	return s.out.Close()
}

// SetPlayingOffset schedules a seek. The Source receives it before the
// next pull, or when playback next starts.
func (s *Stream) SetPlayingOffset(offset time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rewind(offset)
	s.wake.Broadcast()
}

// PlayingOffset returns the current position in the stream
func (s *Stream) PlayingOffset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seekPending {
		return s.seekOffset
	}
	frames := s.processed / int64(max(s.channelCount, 1))
	return s.baseOffset + audio.FramesToDuration(frames, int(s.sampleRate))
}

// SetLoop sets whether the stream restarts from the beginning at its end
func (s *Stream) SetLoop(loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = loop
}

// Loop reports whether the stream is looping
func (s *Stream) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// rewind records a pending seek (must hold s.mu)
func (s *Stream) rewind(offset time.Duration) {
	s.seekPending = true
	s.seekOffset = offset
	s.baseOffset = offset
	s.processed = 0
	s.generation++
}

// run is the streaming loop
func (s *Stream) run(done chan struct{}) {
	defer close(done)

	var chunk Chunk
	var mixed []int16
	looped := false
	playedSinceLoop := false

	for {
		s.mu.Lock()
		for s.status == audio.Paused && !s.stopReq {
			s.wake.Wait()
		}
		if s.stopReq {
			s.mu.Unlock()
			return
		}

		seek, offset := s.seekPending, s.seekOffset
		s.seekPending = false
		gen := s.generation
		p := s.params
		s.mu.Unlock()

		if seek {
			s.resampler.Reset()
			s.src.OnSeek(offset)
		}

		chunk = Chunk{}
		more := s.src.OnGetData(&chunk)

		n := min(int(chunk.SampleCount), len(chunk.Samples))
		if n > 0 {
			mixed = s.mix(chunk.Samples[:n], p, mixed[:0])
			if len(mixed) > 0 {
				if err := s.out.Write(mixed); err != nil {
					s.logger.Error().Err(err).Msg("output write failed, stopping")
					s.finish()
					return
				}
			}

			s.mu.Lock()
			if s.generation == gen {
				s.processed += int64(n)
			}
			s.mu.Unlock()
			playedSinceLoop = true
		}

		if more {
			continue
		}

		s.mu.Lock()
		restart := s.loop && !s.stopReq && (!looped || playedSinceLoop)
		if restart && !s.seekPending {
			s.rewind(0)
		}
		s.mu.Unlock()

		if !restart {
			s.logger.Debug().Msg("end of stream")
			s.finish()
			return
		}

		looped = true
		playedSinceLoop = false
	}
}

// finish marks a stream that ended on its own as stopped and rewinds it
// so the next Play starts from the beginning
func (s *Stream) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopReq {
		s.status = audio.Stopped
		s.rewind(0)
	}
}
