// ABOUTME: Entry point for the soundstream feed server
// ABOUTME: Loads configuration, sets up logging and serves the feed until interrupted
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/soundstream/internal/app"
	"github.com/Resonate-Protocol/soundstream/internal/config"
	"github.com/Resonate-Protocol/soundstream/internal/logging"
	"github.com/Resonate-Protocol/soundstream/internal/version"
	"github.com/rs/zerolog/log"
)

const component = "soundstream-feed"

func main() {
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet(component, flag.ExitOnError)
	config.RegisterFeedFlags(fs)
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.String(component))
		return
	}

	cfg, err := config.LoadFeed(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Log to both file and console
	closer, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().
		Str("version", version.Version).
		Str("name", cfg.Name).
		Int("port", cfg.Port).
		Str("log_file", cfg.LogFile).
		Msg("starting soundstream feed, press Ctrl-C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewFeed(cfg).Run(ctx); err != nil {
		log.Error().Err(err).Msg("feed failed")
		closer.Close()
		os.Exit(1)
	}

	log.Info().Msg("feed stopped")
}
