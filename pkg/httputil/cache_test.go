package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	tests := []struct {
		name  string
		key   string
		value feed
	}{
		{"plain", "https://example.com/a.ics", feed{Body: []byte("BEGIN:VCALENDAR")}},
		{"validators", "https://example.com/b.ics", feed{Body: []byte("x"), ETag: `"v1"`, LastModified: "Mon, 04 Mar 2024 09:00:00 GMT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			var got feed
			ok, err := c.Get(tt.key, &got)
			if err != nil || !ok {
				t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
			}
			if string(got.Body) != string(tt.value.Body) || got.ETag != tt.value.ETag {
				t.Errorf("got %+v, want %+v", got, tt.value)
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil || ok {
		t.Errorf("Get() = %v, %v; want false, nil", ok, err)
	}
	ok, err = c.GetStale("missing", &result)
	if err != nil || ok {
		t.Errorf("GetStale() = %v, %v; want false, nil", ok, err)
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)
	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	var res string
	ok, err := c.Get("key", &res)
	if !errors.Is(err, ErrExpired) || ok {
		t.Errorf("Get() = %v, %v; want false, ErrExpired", ok, err)
	}
	ok, err = c.GetStale("key", &res)
	if !ok || err != nil || res != "value" {
		t.Errorf("GetStale() = %v, %v, %q; want true, nil, value", ok, err, res)
	}

	if err := c.Touch("key"); err != nil {
		t.Fatalf("Touch() failed: %v", err)
	}
	if ok, err := c.Get("key", &res); !ok || err != nil {
		t.Errorf("Get() after Touch = %v, %v; want true, nil", ok, err)
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	want := filepath.Join(home, ".cache", "dayview", "http")
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	work := c.Namespace("work:")
	home := c.Namespace("home:")

	if err := work.Set("cal", "work-data"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := home.Set("cal", "home-data"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got string
	if ok, _ := work.Get("cal", &got); !ok || got != "work-data" {
		t.Errorf("work.Get() = %v, %q", ok, got)
	}
	if ok, _ := home.Get("cal", &got); !ok || got != "home-data" {
		t.Errorf("home.Get() = %v, %q", ok, got)
	}
	if ok, _ := c.Get("cal", &got); ok {
		t.Error("value visible outside its namespace")
	}
	if p := work.Namespace("x:"); p.keyPath("k") != c.keyPath("work:x:k") {
		t.Error("nested namespaces should concatenate prefixes")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	_ = c.Set("a", 1)
	_ = c.Namespace("work:").Set("b", 2)

	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Fatalf("Clear() = %d, %v; want 2", n, err)
	}
	var v int
	if ok, _ := c.Get("a", &v); ok {
		t.Error("entry survived Clear")
	}
}
