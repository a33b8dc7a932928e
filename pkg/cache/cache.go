// Package cache stores computed day layouts.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under ~/.cache/dayview/layouts (CLI)
//   - [RedisCache]: shared cache for several server instances
//
// Keys come from a [Keyer] so that the same events and options always map
// to the same entry. Values are opaque bytes; the pipeline stores JSON.
package cache

import (
	"context"
	"time"
)

// Default lifetimes.
const (
	// TTLLayout bounds how long a computed layout is reused.
	TTLLayout = 24 * time.Hour
	// TTLEvents bounds how long loaded source events are reused.
	TTLEvents = 5 * time.Minute
)

// Cache is a byte store with per-entry TTL. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get reports (nil, false, nil) on a miss or an expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; a ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
