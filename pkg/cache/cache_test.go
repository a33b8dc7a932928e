package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get = ok %v err %v, want miss", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok %v err %v", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("layout"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "layout" {
		t.Fatalf("Get = %q ok %v err %v", data, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("zero ttl entry missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get = ok %v err %v, want quiet miss", ok, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LayoutKeyOpts{Policy: "overlap", MinimumStartDifference: 15}

	a := k.LayoutKey("abc", day, opts)
	if a != k.LayoutKey("abc", day, opts) {
		t.Error("LayoutKey is not deterministic")
	}
	tests := []struct {
		name string
		key  string
	}{
		{"Events", k.LayoutKey("abd", day, opts)},
		{"Day", k.LayoutKey("abc", day.AddDate(0, 0, 1), opts)},
		{"Policy", k.LayoutKey("abc", day, LayoutKeyOpts{Policy: "nested", MinimumStartDifference: 15})},
		{"Threshold", k.LayoutKey("abc", day, LayoutKeyOpts{Policy: "overlap"})},
		{"Grid", k.LayoutKey("abc", day, LayoutKeyOpts{Policy: "overlap", MinimumStartDifference: 15, GridStart: "08:00"})},
	}
	for _, tt := range tests {
		if tt.key == a {
			t.Errorf("%s change did not change the key", tt.name)
		}
	}
	if got := a[:len("layout:")]; got != "layout:" {
		t.Errorf("prefix = %q", got)
	}
	if k.EventsKey("work.ics", day) == k.EventsKey("home.ics", day) {
		t.Error("EventsKey ignores source")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(nil, "v1:")
	opts := LayoutKeyOpts{Policy: "columns"}
	if got, want := k.LayoutKey("h", day, opts), "v1:"+inner.LayoutKey("h", day, opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	if got, want := k.EventsKey("s", day), "v1:"+inner.EventsKey("s", day); got != want {
		t.Errorf("EventsKey = %s, want %s", got, want)
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON([]string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON([]string{"y", "x"})
	if a == b {
		t.Error("order-sensitive input hashed equal")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, RedisConfig{}); err == nil {
		t.Error("expected error for empty address")
	}
	// Port 1 is reserved and refuses connections.
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Error("expected ping failure")
	}
}

func TestRedisCacheClearNeedsPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	c := NewRedisCacheFromClient(client, "")
	defer c.Close()
	if _, err := c.Clear(context.Background()); err == nil {
		t.Error("expected refusal without prefix")
	}
}
