// ABOUTME: Entry point for the soundstream player
// ABOUTME: Loads configuration, sets up logging and runs the player application
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

const component = "soundstream-play"

func main() {
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet(component, flag.ExitOnError)
	config.RegisterPlayerFlags(fs)
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.String(component))
		return
	}

	cfg, err := config.LoadPlayer(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// TUI mode: log only to file
	closer, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: !cfg.TUI,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().Str("version", version.Version).Str("source", cfg.Source).Msg("starting soundstream player")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewPlayer(cfg).Run(ctx); err != nil {
		log.Error().Err(err).Msg("player failed")
		closer.Close()
		os.Exit(1)
	}

	log.Info().Msg("player stopped")
}
