// Package config loads dayview's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/dayview/config.toml (falling back to
// ~/.config/dayview/config.toml). Every key is optional; missing keys keep
// the values of [Default]. Command-line flags override the file.
//
//	policy = "nested"
//	timezone = "Europe/Berlin"
//	sources = ["~/calendars/work.ics", "https://example.com/team.ics"]
//
//	[grid]
//	start = "07:00"
//	end = "20:00"
//	step = 15
//	timeslots = 4
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/slots"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Policy string `toml:"policy"`
	// MinimumStartDifference overrides the value derived from the grid
	// when non-nil.
	MinimumStartDifference *float64 `toml:"min_start_diff,omitempty"`
	Timezone               string   `toml:"timezone"`
	Sources                []string `toml:"sources"`

	Grid   Grid   `toml:"grid"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Mongo  Mongo  `toml:"mongo"`
}

// Grid configures the day grid.
type Grid struct {
	Start     string `toml:"start"`
	End       string `toml:"end"`
	Step      int    `toml:"step"`
	Timeslots int    `toml:"timeslots"`
}

// Cache configures the layout cache.
type Cache struct {
	Backend     string `toml:"backend"`
	Dir         string `toml:"dir,omitempty"`
	RedisAddr   string `toml:"redis_addr,omitempty"`
	RedisDB     int    `toml:"redis_db,omitempty"`
	RedisPrefix string `toml:"redis_prefix,omitempty"`
}

// Server configures `dayview serve`.
type Server struct {
	Listen string `toml:"listen"`
	// MaxEvents caps the events accepted by one layout request.
	MaxEvents int `toml:"max_events"`
}

// Mongo names the collection used for mongodb:// sources.
type Mongo struct {
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Policy:   string(layout.PolicyOverlap),
		Timezone: "Local",
		Grid: Grid{
			Start:     "00:00",
			End:       "24:00",
			Step:      slots.DefaultStep,
			Timeslots: slots.DefaultTimeslots,
		},
		Cache:  Cache{Backend: CacheFile, RedisPrefix: "dayview:"},
		Server: Server{Listen: "127.0.0.1:8080", MaxEvents: 2000},
		Mongo:  Mongo{Database: "dayview", Collection: "events"},
	}
}

// Path returns the default config file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dayview", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dayview", "config.toml"), nil
}

// Load reads path over the defaults and validates the result. A missing
// file is not an error when path is the default location (empty argument).
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks every value.
func (c *Config) Validate() error {
	if err := errors.ValidatePolicy(c.Policy); err != nil {
		return err
	}
	if err := errors.ValidateTimezone(c.Timezone); err != nil {
		return err
	}
	for _, src := range c.Sources {
		if err := errors.ValidateSourcePath(src); err != nil {
			return err
		}
	}
	if d := c.MinimumStartDifference; d != nil && *d < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_start_diff must be non-negative, got %v", *d)
	}
	if _, _, err := c.Grid.Bounds(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grid")
	}
	if c.Grid.Step <= 0 || c.Grid.Timeslots <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid step and timeslots must be positive")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Server.MaxEvents < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_events must be non-negative")
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Bounds parses Start and End with [slots.ParseBounds].
func (g Grid) Bounds() (from, to time.Duration, err error) {
	return slots.ParseBounds(g.Start, g.End)
}
