// Package config loads the host runner configuration.
//
// Precedence, lowest first: compiled defaults, SPARK_* environment
// variables, command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names; the rest,
// lowercased, is the config key (SPARK_CLOCK_24H -> clock_24h).
// Flags use the same key with dashes (-clock-24h).
const EnvPrefix = "SPARK_"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Headless bool   `koanf:"headless"`
	Hz       int    `koanf:"hz"`
	Ticks    uint64 `koanf:"ticks"`

	Width  int `koanf:"width"`
	Height int `koanf:"height"`
	Scale  int `koanf:"scale"`

	// Clock24h is the initial 12/24-hour preference.
	Clock24h bool `koanf:"clock_24h"`
	// TZ is an IANA zone name; empty means the host's local zone.
	TZ string `koanf:"tz"`
	// Start is an RFC 3339 instant the simulated clock starts from; empty means now.
	Start string `koanf:"start"`
	// Rate scales the simulated clock; 60 makes a minute pass every second.
	Rate float64 `koanf:"rate"`

	// PollTicks is how many 1 ms kernel ticks pass between clock reads.
	PollTicks uint64 `koanf:"poll_ticks"`

	Location  *time.Location `koanf:"-"`
	StartTime time.Time      `koanf:"-"`
}

func defaults() *Config {
	return &Config{
		Hz:        60,
		Width:     320,
		Height:    320,
		Scale:     2,
		Clock24h:  true,
		Rate:      1,
		PollTicks: 100,
	}
}

// Load resolves the configuration for args (without the program name).
// Flag output, including -h usage, goes to out.
func Load(args []string, out io.Writer) (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	fs := flag.NewFlagSet("sparkclock", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run without a window.")
	fs.IntVar(&cfg.Hz, "hz", cfg.Hz, "Frame rate in headless mode.")
	fs.Uint64Var(&cfg.Ticks, "ticks", cfg.Ticks, "Stop after N frames in headless mode (0 = run forever).")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Display width in pixels.")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Display height in pixels.")
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "Window magnification.")
	fs.BoolVar(&cfg.Clock24h, "clock-24h", cfg.Clock24h, "Start with the 24-hour clock style.")
	fs.StringVar(&cfg.TZ, "tz", cfg.TZ, "IANA time zone (default local).")
	fs.StringVar(&cfg.Start, "start", cfg.Start, "RFC 3339 start instant for the simulated clock.")
	fs.Float64Var(&cfg.Rate, "rate", cfg.Rate, "Simulated clock speed relative to real time.")
	fs.Uint64Var(&cfg.PollTicks, "poll-ticks", cfg.PollTicks, "Kernel ticks between clock reads.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, fs.Args())
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve validates the values and fills the derived fields.
func (c *Config) resolve() error {
	switch {
	case c.Hz <= 0 || c.Hz > 1000:
		return fmt.Errorf("%w: hz %d out of range 1..1000", ErrInvalid, c.Hz)
	case c.Width < 16 || c.Height < 16:
		return fmt.Errorf("%w: display %dx%d too small", ErrInvalid, c.Width, c.Height)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale %d", ErrInvalid, c.Scale)
	case c.Rate <= 0:
		return fmt.Errorf("%w: rate %v must be positive", ErrInvalid, c.Rate)
	case c.PollTicks == 0:
		return fmt.Errorf("%w: poll_ticks must be positive", ErrInvalid)
	}

	c.Location = time.Local
	if c.TZ != "" {
		loc, err := time.LoadLocation(c.TZ)
		if err != nil {
			return fmt.Errorf("%w: tz: %v", ErrInvalid, err)
		}
		c.Location = loc
	}

	c.StartTime = time.Time{}
	if c.Start != "" {
		t, err := time.Parse(time.RFC3339, c.Start)
		if err != nil {
			return fmt.Errorf("%w: start: %v", ErrInvalid, err)
		}
		c.StartTime = t
	}
	return nil
}
