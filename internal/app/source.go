// ABOUTME: Source resolution for the player application
// ABOUTME: Opens a tone, a decoded file, or a network feed found by address or mDNS
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/discovery"
	"github.com/Resonate-Protocol/soundstream/internal/feed"
	"github.com/Resonate-Protocol/soundstream/internal/player"
	"github.com/Resonate-Protocol/soundstream/pkg/audio/decode"
	"github.com/rs/zerolog/log"
)

// DiscoveryTimeout bounds the wait for an mDNS feed
const DiscoveryTimeout = 10 * time.Second

// ToneSource selects the built in test tone
const ToneSource = "tone"

// openSource resolves the configured source to a track and a display name
func openSource(ctx context.Context, cfg config.Player) (decode.Track, string, error) {
	switch {
	case cfg.Discover:
		return discoverFeed(ctx, cfg, DiscoveryTimeout)
	case cfg.Source == ToneSource:
		tone := player.NewTone(cfg.ToneFrequency, cfg.SampleRate, cfg.Channels)
		return tone, fmt.Sprintf("Test Tone %.0fHz", cfg.ToneFrequency), nil
	case isFeedAddress(cfg.Source):
		return dialFeed(ctx, cfg, cfg.Source)
	default:
		track, err := decode.Open(cfg.Source)
		if err != nil {
			return nil, "", err
		}
		return track, filepath.Base(cfg.Source), nil
	}
}

// isFeedAddress reports whether source names a feed rather than a file
func isFeedAddress(source string) bool {
	if strings.HasPrefix(source, "ws://") || strings.HasPrefix(source, "wss://") {
		return true
	}
	if filepath.Ext(source) != "" && !strings.Contains(source, ":") {
		return false
	}
	host, _, found := strings.Cut(source, ":")
	return found && host != "" && !strings.ContainsAny(host, `/\`)
}

func dialFeed(ctx context.Context, cfg config.Player, addr string) (decode.Track, string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := feed.Dial(dialCtx, feed.ClientConfig{
		Addr:   addr,
		Codec:  cfg.Codec,
		Buffer: cfg.Buffer,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to feed %s: %w", addr, err)
	}

	name := client.Header().Title
	if name == "" {
		name = addr
	}
	return client, name, nil
}

// discoverFeed browses for feeds and connects to the first one that
// accepts the configured codec
func discoverFeed(ctx context.Context, cfg config.Player, timeout time.Duration) (decode.Track, string, error) {
	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()
	mgr.Browse()

	log.Info().Dur("timeout", timeout).Msg("waiting for feed discovery")

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case info := <-mgr.Feeds():
			if !info.Supports(cfg.Codec) {
				log.Info().Str("feed", info.Name).Str("codec", cfg.Codec).Msg("skipping feed without codec")
				continue
			}
			track, name, err := dialFeed(ctx, cfg, info.Addr())
			if err != nil {
				log.Warn().Err(err).Str("feed", info.Name).Msg("connection failed")
				continue
			}
			if name == info.Addr() {
				name = info.Name
			}
			return track, name, nil
		case <-timer.C:
			return nil, "", fmt.Errorf("no feed discovered within %v", timeout)
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
}
