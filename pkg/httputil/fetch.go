package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/dayview/pkg/observability"
)

const requestTimeout = 15 * time.Second

var (
	// ErrNotFound is returned when the feed URL answers 404.
	ErrNotFound = errors.New("feed not found")

	// ErrNetwork is returned for connection failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// Response is the outcome of [Fetcher.Fetch].
type Response struct {
	Body      []byte
	FromCache bool
}

// feed is the cached form of a response.
type feed struct {
	Body         []byte    `json:"body"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Fetcher downloads feeds through a [Cache].
type Fetcher struct {
	http     *http.Client
	cache    *Cache
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.http = c }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) { f.attempts, f.delay = attempts, delay }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) FetcherOption {
	return func(f *Fetcher) { f.headers[key] = value }
}

// NewFetcher returns a Fetcher storing feeds in cache under the "feed:"
// namespace. A nil cache disables caching.
func NewFetcher(cache *Cache, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		http:     &http.Client{Timeout: requestTimeout},
		headers:  map[string]string{"Accept": "text/calendar, */*;q=0.5"},
		attempts: 3,
		delay:    time.Second,
	}
	if cache != nil {
		f.cache = cache.Namespace("feed:")
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body at url, preferring a fresh cached copy and falling
// back to a stale one when the server cannot deliver.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	var cached feed
	haveCached := false
	if f.cache != nil {
		if ok, err := f.cache.Get(url, &cached); ok && err == nil {
			return &Response{Body: cached.Body, FromCache: true}, nil
		}
		haveCached, _ = f.cache.GetStale(url, &cached)
	}

	var fresh *feed
	notModified := false
	err := Retry(ctx, f.attempts, f.delay, func() error {
		var err error
		fresh, notModified, err = f.get(ctx, url, cached, haveCached)
		return err
	})

	switch {
	case err == nil && notModified:
		if f.cache != nil {
			_ = f.cache.Touch(url)
		}
		return &Response{Body: cached.Body, FromCache: true}, nil
	case err == nil:
		if f.cache != nil {
			_ = f.cache.Set(url, fresh)
		}
		return &Response{Body: fresh.Body}, nil
	case haveCached && ctx.Err() == nil:
		return &Response{Body: cached.Body, FromCache: true}, nil
	default:
		return nil, err
	}
}

func (f *Fetcher) get(ctx context.Context, url string, cached feed, conditional bool) (*feed, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if conditional {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	began := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, false, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(began))

	if conditional && resp.StatusCode == http.StatusNotModified {
		return nil, true, nil
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, false, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return &feed{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		FetchedAt:    time.Now().UTC(),
	}, false, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
