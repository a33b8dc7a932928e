// Package ics reads iCalendar feeds and expands recurring entries into
// concrete events.
//
// [Parse] decodes VEVENTs with github.com/arran4/golang-ical, keeping RRULE,
// EXDATE and RECURRENCE-ID untouched. [Expand] turns them into
// event.Event values inside a time window using github.com/teambition/rrule-go.
// [Source] combines both for a local file or a remote URL.
package ics

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/httputil"
)

// Fetcher downloads remote feeds. *httputil.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*httputil.Response, error)
}

// Source reads events from an .ics file or an http(s) URL.
type Source struct {
	// Location is an http(s) URL or a file path.
	Location string
	// Calendar names the calendar on every event; defaults to Location.
	Calendar string
	// Zone reads floating times and converts occurrences; nil means UTC.
	Zone *time.Location
	// Fetcher is required for URLs.
	Fetcher Fetcher
	// MaxOccurrences caps each recurring series.
	MaxOccurrences int
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	if s.Calendar != "" {
		return s.Calendar
	}
	return s.Location
}

// Remote reports whether the source is fetched over HTTP.
func (s *Source) Remote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Events returns the expanded events intersecting [from, to). Entries that
// fail to parse or expand are dropped and reported in the returned error
// alongside the events that succeeded.
func (s *Source) Events(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entries, parseErr := Parse(bytes.NewReader(data), s.Zone)
	if entries == nil && parseErr != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), parseErr)
	}

	exp, expandErr := Expand(entries, ExpandOptions{
		From:           from,
		To:             to,
		Location:       s.Zone,
		Calendar:       s.Name(),
		MaxOccurrences: s.MaxOccurrences,
	})
	if exp == nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), expandErr)
	}
	if parseErr != nil || expandErr != nil {
		return exp.Events, fmt.Errorf("%s: partial feed: %w", s.Name(), joinNonNil(parseErr, expandErr))
	}
	return exp.Events, nil
}

func (s *Source) load(ctx context.Context) ([]byte, error) {
	if !s.Remote() {
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Location, err)
		}
		return data, nil
	}
	if s.Fetcher == nil {
		return nil, fmt.Errorf("%s: no fetcher configured for remote feed", s.Location)
	}
	res, err := s.Fetcher.Fetch(ctx, s.Location)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", redactURL(s.Location), err)
	}
	return res.Body, nil
}

func joinNonNil(a, b error) error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return fmt.Errorf("%w; %w", a, b)
	}
}

// redactURL keeps scheme and host; feed paths often carry secrets.
func redactURL(u string) string {
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return "(redacted)"
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host + "/..."
}
