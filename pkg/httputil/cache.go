package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] for an entry older than the TTL.
// The entry stays on disk and can still be read with [Cache.GetStale].
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON values as files named by the SHA-256 of their key.
// Freshness is judged by file modification time; a TTL of 0 never expires.
//
// A Cache is not goroutine-safe, but several instances, even in different
// processes, may share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache opens a cache in dir, creating it if needed. An empty dir
// selects ~/.cache/dayview/http.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "dayview", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir is the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL is the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get decodes the entry for key into v. It reports (false, nil) on a miss
// and (false, ErrExpired) for a stale entry, leaving v untouched in both.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	return c.read(path, v)
}

// GetStale decodes the entry for key regardless of its age.
func (c *Cache) GetStale(key string, v any) (bool, error) {
	ok, err := c.read(c.keyPath(key), v)
	if os.IsNotExist(err) {
		return false, nil
	}
	return ok, err
}

// Set stores v under key and resets its age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Touch resets the age of an existing entry, as after a 304 response.
func (c *Cache) Touch(key string) error {
	now := time.Now()
	return os.Chtimes(c.keyPath(key), now, now)
}

// Namespace returns a view of the cache whose keys are prefixed with
// prefix. Views share the directory and TTL and can be nested.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Clear removes every entry in the directory, whatever its namespace, and
// returns the number removed.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Cache) read(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
