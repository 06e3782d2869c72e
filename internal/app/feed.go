// ABOUTME: Feed server application orchestration
// ABOUTME: Serves a file or tone over WebSocket and advertises it via mDNS
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/discovery"
	"github.com/Resonate-Protocol/soundstream/internal/feed"
	"github.com/Resonate-Protocol/soundstream/internal/player"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Feed is the soundstream-feed application
type Feed struct {
	config config.Feed
}

// NewFeed creates the feed application
func NewFeed(cfg config.Feed) *Feed {
	return &Feed{config: cfg}
}

// Run serves until ctx is cancelled
func (f *Feed) Run(ctx context.Context) error {
	open, title, err := f.opener()
	if err != nil {
		return err
	}

	server := feed.NewServer(open, feed.Config{
		Title:         title,
		ChunkDuration: f.config.ChunkDuration,
		Realtime:      f.config.Realtime,
		AllowOpus:     f.config.Opus,
	})
	codecs := server.Codecs()

	log.Info().
		Str("name", f.config.Name).
		Str("title", title).
		Strs("codecs", codecs).
		Int("port", f.config.Port).
		Msg("starting feed")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.ListenAndServe(ctx, fmt.Sprintf(":%d", f.config.Port))
	})

	if f.config.MDNS {
		g.Go(func() error {
			mgr := discovery.NewManager(discovery.Config{
				ServiceName: f.config.Name,
				Port:        f.config.Port,
				Path:        feed.Path,
				Codecs:      codecs,
				Title:       title,
			})
			defer mgr.Stop()
			if err := mgr.Advertise(); err != nil {
				log.Warn().Err(err).Msg("mDNS advertisement failed, continuing without it")
				return nil
			}
			<-ctx.Done()
			return nil
		})
	}

	return g.Wait()
}

// opener validates the source once and returns a per-listener opener
func (f *Feed) opener() (feed.TrackOpener, string, error) {
	if f.config.Source == ToneSource {
		freq, rate, channels := f.config.ToneFrequency, f.config.SampleRate, f.config.Channels
		open := func() (decode.Track, error) {
			return player.NewTone(freq, rate, channels), nil
		}
		return open, fmt.Sprintf("Test Tone %.0fHz", freq), nil
	}

	path := f.config.Source
	track, err := decode.Open(path)
	if err != nil {
		return nil, "", err
	}
	log.Info().
		Str("file", path).
		Str("format", track.Format().String()).
		Dur("duration", track.Duration()).
		Msg("loaded source")
	track.Close()

	open := func() (decode.Track, error) {
		return decode.Open(path)
	}
	return open, filepath.Base(path), nil
}
