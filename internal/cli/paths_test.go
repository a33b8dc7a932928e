package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/config"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirStructure(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirsUnderAppName(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", root)

	if appName != "dayview" {
		t.Fatalf("appName = %q, want dayview", appName)
	}

	c, err := newCache(context.Background(), config.Cache{Backend: config.CacheFile}, false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	defer c.Close()
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache returned %T, want *cache.FileCache", c)
	}
	if want := filepath.Join(root, "dayview", "layouts"); fc.Dir() != want {
		t.Errorf("layout cache dir = %q, want %q", fc.Dir(), want)
	}

	app := New(&strings.Builder{}, LogError)
	if _, err := os.Stat(filepath.Join(root, "dayview", "http")); !os.IsNotExist(err) {
		t.Fatalf("http cache exists before first use: %v", err)
	}
	if f := app.newFetcher(false); f == nil {
		t.Fatal("newFetcher returned nil")
	}
	if _, err := os.Stat(filepath.Join(root, "dayview", "http")); err != nil {
		t.Errorf("http cache dir not created: %v", err)
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		name    string
		cfg     config.Cache
		noCache bool
		want    string
	}{
		{"NoCacheFlag", config.Cache{Backend: config.CacheFile}, true, "cache.NullCache"},
		{"NoneBackend", config.Cache{Backend: config.CacheNone}, false, "cache.NullCache"},
		{"ExplicitDir", config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}, false, "*cache.FileCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(context.Background(), tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer c.Close()
			if got := fmt.Sprintf("%T", c); got != tt.want {
				t.Errorf("backend = %s, want %s", got, tt.want)
			}
		})
	}
}
