// Package source loads calendar events from files, feeds and databases.
//
// Every backend implements [Source]. [Open] picks the backend from a
// location string:
//
//	mongodb://host/           MongoDB collection (package source/mongo)
//	https://host/feed.ics     remote iCalendar feed (package source/ics)
//	week.ics                  local iCalendar file
//	week.json|.yaml|.toml     structured event file (package io)
//
// [Multi] merges several sources, querying them concurrently.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/httputil"
	"github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/source/ics"
	"github.com/matzehuels/dayview/pkg/source/mongo"
)

// Source yields the events intersecting a time window.
type Source interface {
	Name() string
	Events(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

// Options configures [Open].
type Options struct {
	// Zone reads floating iCalendar times; nil means UTC.
	Zone *time.Location
	// Calendar overrides the calendar name on loaded events.
	Calendar string
	// Fetcher downloads remote feeds; nil uses an uncached fetcher.
	Fetcher *httputil.Fetcher
	// Database and Collection select the MongoDB collection.
	Database   string
	Collection string
}

// Open returns the source for location.
func Open(ctx context.Context, location string, opts Options) (Source, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("source: empty location")
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		s, err := mongo.Connect(ctx, mongo.Config{
			URI:        location,
			Database:   opts.Database,
			Collection: opts.Collection,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		f := opts.Fetcher
		if f == nil {
			f = httputil.NewFetcher(nil)
		}
		return &ics.Source{Location: location, Calendar: opts.Calendar, Zone: opts.Zone, Fetcher: f}, nil
	case strings.EqualFold(filepath.Ext(location), ".ics"):
		return &ics.Source{Location: location, Calendar: opts.Calendar, Zone: opts.Zone}, nil
	default:
		if _, err := io.FormatFromPath(location); err != nil {
			return nil, fmt.Errorf("source %s: %w", location, err)
		}
		return &File{Path: location, Calendar: opts.Calendar}, nil
	}
}

// Close releases sources holding connections. Others are ignored.
func Close(ctx context.Context, s Source) error {
	if c, ok := s.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	if m, ok := s.(Multi); ok {
		var firstErr error
		for _, sub := range m {
			if err := Close(ctx, sub); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return nil
}

// File reads a JSON, YAML or TOML event file on every call.
type File struct {
	Path     string
	Calendar string
}

// Name is the file path.
func (f *File) Name() string { return f.Path }

// Events returns the file's events intersecting [from, to).
func (f *File) Events(_ context.Context, from, to time.Time) ([]event.Event, error) {
	all, err := io.ImportEvents(f.Path)
	if err != nil {
		return nil, err
	}
	out := make([]event.Event, 0, len(all))
	for _, e := range all {
		if !Intersects(e, from, to) {
			continue
		}
		if f.Calendar != "" {
			e.Calendar = f.Calendar
		}
		out = append(out, e)
	}
	return out, nil
}

// Multi merges sources. Events are sorted by start, then end descending.
type Multi []Source

// Name lists the member names.
func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}

// Events queries every source concurrently and fails if any source fails.
func (m Multi) Events(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	results := make([][]event.Event, len(m))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range m {
		g.Go(func() error {
			events, err := s.Events(ctx, from, to)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []event.Event
	for _, r := range results {
		out = append(out, r...)
	}
	slices.SortStableFunc(out, func(a, b event.Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return b.End.Compare(a.End)
	})
	return out, nil
}

// Intersects reports whether e overlaps [from, to). Zero-length events
// count when they fall inside the window.
func Intersects(e event.Event, from, to time.Time) bool {
	if e.Start.Equal(e.End) {
		return !e.Start.Before(from) && e.Start.Before(to)
	}
	return e.Start.Before(to) && e.End.After(from)
}
