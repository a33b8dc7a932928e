// Package httputil fetches remote calendar feeds.
//
// # Overview
//
//   - [Fetcher]: conditional GET with retries and an on-disk copy of every feed
//   - [Cache]: file-based JSON cache with a TTL, used by [Fetcher]
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Fetching
//
// [Fetcher.Fetch] serves a fresh cached copy without touching the network.
// Otherwise it revalidates with ETag and Last-Modified, stores 200 responses
// and reuses the stored body on 304. When the server is unreachable or
// answers with an error, the last stored body is returned instead:
//
//	cache, _ := httputil.NewCache("", 15*time.Minute)
//	f := httputil.NewFetcher(cache)
//	res, err := f.Fetch(ctx, "https://example.com/team.ics")
//	if err != nil {
//	    return err
//	}
//	if res.FromCache {
//	    logger.Debug("feed served from cache")
//	}
//
// Network errors and 5xx responses are retried; 4xx responses are not.
//
// # Configuration
//
//   - Cache directory: ~/.cache/dayview/http/
//   - Request timeout: 15 seconds
//   - Retries: 3 attempts, 1 second initial delay
//
// `dayview cache clear` removes the directory.
package httputil
