// ABOUTME: Track playback through the custom sound stream adapter
// ABOUTME: Producer and seek callbacks read and reposition a decode.Track
package player

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/Resonate-Protocol/soundstream/pkg/soundstream"
	"github.com/Resonate-Protocol/soundstream/pkg/stream"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultChunkDuration is the amount of audio requested per pull
const DefaultChunkDuration = 50 * time.Millisecond

// Stats tracks callback activity
type Stats struct {
	Chunks  int64
	Samples int64
	Seeks   int64
	Errors  int64
}

// Config tunes a Player
type Config struct {
	ChunkDuration time.Duration
	Logger        *zerolog.Logger
}

// Player owns a track and the sound stream that plays it
type Player struct {
	track  decode.Track
	sound  *soundstream.CustomSoundStream
	format audio.Format
	buf    []int16
	logger zerolog.Logger

	mu    sync.Mutex
	stats Stats
	err   error
}

// New prepares track for playback. Stream options select the output device
// and listener.
func New(track decode.Track, config Config, opts ...stream.Option) (*Player, error) {
	format := track.Format()
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid track format: %s", format)
	}

	if config.ChunkDuration <= 0 {
		config.ChunkDuration = DefaultChunkDuration
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	frames := max(int(audio.DurationToFrames(config.ChunkDuration, format.SampleRate)), 1)

	p := &Player{
		track:  track,
		format: format,
		buf:    make([]int16, frames*format.Channels),
		logger: logger.With().Str("component", "player").Logger(),
	}
	p.sound = soundstream.New(getData, seek, uint(format.Channels), uint(format.SampleRate), p, opts...)

	p.logger.Info().
		Str("format", format.String()).
		Dur("duration", track.Duration()).
		Msg("player ready")
	return p, nil
}

// getData is the producer callback; userData is the *Player
func getData(chunk *stream.Chunk, userData any) bool {
	p := userData.(*Player)

	n, err := p.track.Read(p.buf)
	chunk.Samples = p.buf[:n]
	chunk.SampleCount = uint(n)

	p.mu.Lock()
	defer p.mu.Unlock()
	if n > 0 {
		p.stats.Chunks++
		p.stats.Samples += int64(n)
	}

	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		return false
	default:
		p.stats.Errors++
		p.err = err
		p.logger.Error().Err(err).Msg("track read failed")
		return false
	}
}

// seek is the seek callback; offset is in microseconds
func seek(offset int64, userData any) {
	p := userData.(*Player)

	err := p.track.Seek(audio.MicrosToDuration(offset))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Seeks++
	if err != nil {
		p.stats.Errors++
		p.err = err
		p.logger.Error().Err(err).Int64("offset_us", offset).Msg("track seek failed")
	}
}

// Sound exposes the adapter for parameter control
func (p *Player) Sound() *soundstream.CustomSoundStream {
	return p.sound
}

// Track returns the track being played
func (p *Player) Track() decode.Track {
	return p.track
}

// Format describes the samples being played
func (p *Player) Format() audio.Format {
	return p.format
}

// Duration is the track length, or 0 when unknown
func (p *Player) Duration() time.Duration {
	return p.track.Duration()
}

// Play starts or resumes playback
func (p *Player) Play() {
	p.sound.Play()
}

// Pause suspends playback
func (p *Player) Pause() {
	p.sound.Pause()
}

// Stop halts playback and rewinds
func (p *Player) Stop() {
	p.sound.Stop()
}

// Toggle flips between playing and paused, starting a stopped player
func (p *Player) Toggle() {
	if p.sound.Status() == audio.Playing {
		p.sound.Pause()
		return
	}
	p.sound.Play()
}

// Status reports the transport state
func (p *Player) Status() audio.Status {
	return p.sound.Status()
}

// Position is the current playing offset
func (p *Player) Position() time.Duration {
	return audio.MicrosToDuration(p.sound.PlayingOffset())
}

// Seek moves playback to offset, clamped to the track when its length is known
func (p *Player) Seek(offset time.Duration) {
	offset = max(offset, 0)
	if d := p.track.Duration(); d > 0 {
		offset = min(offset, d)
	}
	p.sound.SetPlayingOffset(audio.DurationToMicros(offset))
}

// SeekBy moves playback relative to the current position
func (p *Player) SeekBy(delta time.Duration) {
	p.Seek(p.Position() + delta)
}

// Stats returns a snapshot of callback counters
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Err returns the last track error seen by a callback
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close destroys the sound stream and closes the track
func (p *Player) Close() error {
	p.sound.Destroy()
	return p.track.Close()
}
