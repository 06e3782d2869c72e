// ABOUTME: Layered configuration for the command line tools
// ABOUTME: Merges flag defaults, config file, SOUNDSTREAM_ env vars and explicit flags via viper
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SOUNDSTREAM_LOG_LEVEL
const EnvPrefix = "SOUNDSTREAM"

// Player configures soundstream-play
type Player struct {
	Source        string // file path, "tone", or feed address
	Discover      bool   // find a feed via mDNS
	Output        string
	Codec         string
	Buffer        time.Duration
	Volume        float32
	Pitch         float32
	Pan           float32
	Loop          bool
	Offset        time.Duration
	ToneFrequency float64
	SampleRate    int
	Channels      int
	TUI           bool
	LogLevel      string
	LogFile       string
}

// Feed configures soundstream-feed
type Feed struct {
	Source        string
	Port          int
	Name          string
	MDNS          bool
	Realtime      bool
	Opus          bool
	ChunkDuration time.Duration
	ToneFrequency float64
	SampleRate    int
	Channels      int
	LogLevel      string
	LogFile       string
}

// RegisterPlayerFlags defines the player flags and their defaults
func RegisterPlayerFlags(fs *flag.FlagSet) {
	fs.String("config", "", "Config file (yaml, toml or json)")
	fs.String("source", "tone", "Audio file, feed address (host:port or ws:// URL), or \"tone\"")
	fs.Bool("discover", false, "Find a feed on the local network via mDNS")
	fs.String("output", "oto", "Audio output: oto, portaudio or discard")
	fs.String("codec", "pcm", "Codec to request from feeds: pcm or opus")
	fs.Duration("buffer", 2*time.Second, "Feed buffer length")
	fs.Float64("volume", 100, "Volume, 0-100")
	fs.Float64("pitch", 1, "Pitch multiplier")
	fs.Float64("pan", 0, "Stereo pan, -1 (left) to 1 (right)")
	fs.Bool("loop", false, "Loop the source")
	fs.Duration("offset", 0, "Start offset")
	fs.Float64("tone-frequency", 440, "Test tone frequency in Hz")
	fs.Int("sample-rate", 44100, "Test tone sample rate")
	fs.Int("channels", 2, "Test tone channel count")
	fs.Bool("tui", true, "Show the transport TUI")
	fs.String("log-level", "info", "Log level")
	fs.String("log-file", "soundstream-play.log", "Log file path")
}

// RegisterFeedFlags defines the feed server flags and their defaults
func RegisterFeedFlags(fs *flag.FlagSet) {
	fs.String("config", "", "Config file (yaml, toml or json)")
	fs.String("source", "tone", "Audio file to serve, or \"tone\"")
	fs.Int("port", 8928, "Listen port")
	fs.String("name", "", "Feed name (default: hostname-soundstream-feed)")
	fs.Bool("mdns", true, "Advertise via mDNS")
	fs.Bool("realtime", true, "Pace frames at playback speed")
	fs.Bool("opus", true, "Allow Opus-encoded listeners")
	fs.Duration("chunk-duration", 20*time.Millisecond, "Audio per PCM frame")
	fs.Float64("tone-frequency", 440, "Test tone frequency in Hz")
	fs.Int("sample-rate", 48000, "Test tone sample rate")
	fs.Int("channels", 2, "Test tone channel count")
	fs.String("log-level", "info", "Log level")
	fs.String("log-file", "soundstream-feed.log", "Log file path")
}

// LoadEnvFile loads KEY=VALUE pairs from path (default .env) into the
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadPlayer resolves player settings from a parsed flag set
func LoadPlayer(fs *flag.FlagSet) (Player, error) {
	v, err := load(fs)
	if err != nil {
		return Player{}, err
	}

	cfg := Player{
		Source:        v.GetString("source"),
		Discover:      v.GetBool("discover"),
		Output:        v.GetString("output"),
		Codec:         v.GetString("codec"),
		Buffer:        v.GetDuration("buffer"),
		Volume:        float32(v.GetFloat64("volume")),
		Pitch:         float32(v.GetFloat64("pitch")),
		Pan:           float32(v.GetFloat64("pan")),
		Loop:          v.GetBool("loop"),
		Offset:        v.GetDuration("offset"),
		ToneFrequency: v.GetFloat64("tone-frequency"),
		SampleRate:    v.GetInt("sample-rate"),
		Channels:      v.GetInt("channels"),
		TUI:           v.GetBool("tui"),
		LogLevel:      v.GetString("log-level"),
		LogFile:       v.GetString("log-file"),
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enumerations
func (p Player) Validate() error {
	switch p.Output {
	case "oto", "portaudio", "discard":
	default:
		return fmt.Errorf("invalid output %q (oto, portaudio, discard)", p.Output)
	}
	switch p.Codec {
	case "pcm", "opus":
	default:
		return fmt.Errorf("invalid codec %q (pcm, opus)", p.Codec)
	}
	if p.Volume < 0 || p.Volume > 100 {
		return fmt.Errorf("volume %v out of range 0-100", p.Volume)
	}
	if p.Pitch <= 0 {
		return fmt.Errorf("pitch must be positive, got %v", p.Pitch)
	}
	if p.Pan < -1 || p.Pan > 1 {
		return fmt.Errorf("pan %v out of range -1..1", p.Pan)
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %v", p.Offset)
	}
	return validateTone(p.ToneFrequency, p.SampleRate, p.Channels)
}

// LoadFeed resolves feed server settings from a parsed flag set
func LoadFeed(fs *flag.FlagSet) (Feed, error) {
	v, err := load(fs)
	if err != nil {
		return Feed{}, err
	}

	cfg := Feed{
		Source:        v.GetString("source"),
		Port:          v.GetInt("port"),
		Name:          v.GetString("name"),
		MDNS:          v.GetBool("mdns"),
		Realtime:      v.GetBool("realtime"),
		Opus:          v.GetBool("opus"),
		ChunkDuration: v.GetDuration("chunk-duration"),
		ToneFrequency: v.GetFloat64("tone-frequency"),
		SampleRate:    v.GetInt("sample-rate"),
		Channels:      v.GetInt("channels"),
		LogLevel:      v.GetString("log-level"),
		LogFile:       v.GetString("log-file"),
	}
	if cfg.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Name = fmt.Sprintf("%s-soundstream-feed", hostname)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges
func (f Feed) Validate() error {
	if f.Port <= 0 || f.Port > 65535 {
		return fmt.Errorf("invalid port %d", f.Port)
	}
	if f.ChunkDuration <= 0 {
		return fmt.Errorf("chunk duration must be positive, got %v", f.ChunkDuration)
	}
	return validateTone(f.ToneFrequency, f.SampleRate, f.Channels)
}

func validateTone(freq float64, rate, channels int) error {
	if freq <= 0 {
		return fmt.Errorf("tone frequency must be positive, got %v", freq)
	}
	if rate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", rate)
	}
	if channels < 1 || channels > 8 {
		return fmt.Errorf("channels %d out of range 1-8", channels)
	}
	return nil
}

// load layers flag defaults, the config file, the environment and
// explicitly set flags, in increasing priority
func load(fs *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *flag.Flag) {
		if f.Name != "config" {
			v.SetDefault(f.Name, f.DefValue)
		}
	})

	configFile := os.Getenv(EnvPrefix + "_CONFIG")
	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		configFile = f.Value.String()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			v.Set(f.Name, f.Value.String())
		}
	})
	return v, nil
}
