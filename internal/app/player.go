// ABOUTME: Player application orchestration
// ABOUTME: Opens the source, plays it through the sound stream and runs the TUI or headless loop
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/feed"
	"github.com/Resonate-Protocol/soundstream/internal/player"
	"github.com/Resonate-Protocol/soundstream/internal/ui"
	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/output"
	"github.com/Resonate-Protocol/soundstream/pkg/stream"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const statusInterval = 500 * time.Millisecond

// Player is the soundstream-play application
type Player struct {
	config config.Player
	player *player.Player
	name   string
}

// NewPlayer creates the player application
func NewPlayer(cfg config.Player) *Player {
	return &Player{config: cfg}
}

// Run plays the configured source until it ends, the user quits, or ctx
// is cancelled
func (a *Player) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	track, name, err := openSource(ctx, a.config)
	if err != nil {
		return err
	}

	out, err := output.New(a.config.Output)
	if err != nil {
		track.Close()
		return err
	}

	p, err := player.New(track, player.Config{}, stream.WithOutput(out))
	if err != nil {
		track.Close()
		return fmt.Errorf("failed to create player: %w", err)
	}
	defer p.Close()

	a.player = p
	a.name = name
	a.applySettings()

	log.Info().
		Str("source", name).
		Str("format", p.Format().String()).
		Str("output", a.config.Output).
		Msg("starting playback")

	p.Play()

	if a.config.TUI {
		return a.runTUI(ctx)
	}
	return a.runHeadless(ctx)
}

// applySettings pushes the configured mix parameters to the sound stream
func (a *Player) applySettings() {
	sound := a.player.Sound()
	sound.SetVolume(a.config.Volume)
	sound.SetPitch(a.config.Pitch)
	sound.SetPan(a.config.Pan)
	sound.SetLoop(a.config.Loop)
	if a.config.Offset > 0 {
		a.player.Seek(a.config.Offset)
	}
}

func (a *Player) runTUI(ctx context.Context) error {
	prog := ui.NewProgram(a.player, a.name)

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if _, err := prog.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				prog.Quit()
				return nil
			case <-ticker.C:
				prog.Send(a.status())
			}
		}
	})

	return g.Wait()
}

// runHeadless waits for the end of playback, logging progress
func (a *Player) runHeadless(ctx context.Context) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("playback interrupted")
			return nil
		case <-ticker.C:
		}

		if a.player.Status() == audio.Stopped {
			stats := a.player.Stats()
			log.Info().
				Int64("chunks", stats.Chunks).
				Int64("seeks", stats.Seeks).
				Msg("playback finished")
			return a.player.Err()
		}

		if time.Since(lastLog) >= 5*time.Second {
			lastLog = time.Now()
			log.Info().
				Dur("position", a.player.Position()).
				Dur("duration", a.player.Duration()).
				Msg("playing")
		}
	}
}

// status collects the state the TUI cannot read from the player directly
func (a *Player) status() ui.StatusMsg {
	stats := a.player.Stats()
	msg := ui.StatusMsg{
		Title:  a.name,
		Chunks: stats.Chunks,
		Seeks:  stats.Seeks,
		Errors: stats.Errors,
		Err:    a.player.Err(),
	}

	if client, ok := a.trackAsFeed(); ok {
		format := client.Format()
		if format.Channels > 0 {
			frames := int64(client.Buffered() / format.Channels)
			msg.Buffered = audio.FramesToDuration(frames, format.SampleRate)
		}
	}
	return msg
}

func (a *Player) trackAsFeed() (*feed.Client, bool) {
	client, ok := a.player.Track().(*feed.Client)
	return client, ok
}
