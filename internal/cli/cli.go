// Package cli implements the dayview command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/buildinfo"
	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/config"
	"github.com/matzehuels/dayview/pkg/httputil"
	"github.com/matzehuels/dayview/pkg/observability"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dayview"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config loads the configuration file once.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Pipeline, cache and
// HTTP events are logged at debug level.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	lc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	// Layouts written by another build may differ.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	runner := pipeline.NewRunner(lc, keyer, c.Logger)
	runner.Sources = source.Options{
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
		Fetcher:    c.newFetcher(noCache),
	}
	return runner, nil
}

// newFetcher returns an ICS fetcher backed by the HTTP response cache, or
// an uncached one when the cache is disabled or unavailable.
func (c *CLI) newFetcher(noCache bool) *httputil.Fetcher {
	if noCache {
		return httputil.NewFetcher(nil)
	}
	dir, err := cacheDir()
	if err != nil {
		return httputil.NewFetcher(nil)
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), cache.TTLEvents)
	if err != nil {
		c.Logger.Warn("http cache unavailable", "error", err)
		return httputil.NewFetcher(nil)
	}
	return httputil.NewFetcher(hc)
}

// newCache opens the configured layout cache backend.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rc, nil
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = filepath.Join(d, "layouts")
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dayview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
