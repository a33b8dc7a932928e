// Package pkg provides the libraries behind dayview, a day-view layout
// engine for calendar events.
//
// # Overview
//
// Given the events of one day, dayview computes where each event sits on a
// vertical time grid: its top and height from its times, and its width,
// horizontal offset and stacking order from the events it overlaps. The
// pkg directory is organized into these areas:
//
//  1. [core/layout] - The layout engine, generic over event types
//  2. [slots], [event] - The concrete time grid and event record
//  3. [source], [io] - Loading events from files, feeds and MongoDB
//  4. [pipeline] - Orchestration (load → layout → render)
//  5. [render] - Text, SVG, PNG, PDF and hierarchy output
//  6. [view] - The serialized day layout shared by all of the above
//
// # Architecture
//
// The typical data flow through dayview:
//
//	Event files / iCalendar feeds / MongoDB
//	         ↓
//	    [source] package (events intersecting the day)
//	         ↓
//	    [core/layout] package (grouping + geometry on a [slots] grid)
//	         ↓
//	    [view] package (day layout)
//	         ↓
//	    [render] packages (text, SVG, PNG, PDF, DOT)
//
// # Quick Start
//
// Lay out two overlapping meetings:
//
//	grid, _ := slots.New(day)
//	res, err := layout.Build(events, event.Accessors, grid,
//	    layout.WithPolicy(layout.PolicyOverlap))
//	for _, s := range res.Events {
//	    fmt.Println(s.Event.Title, s.Style.Width, s.Style.XOffset)
//	}
//
// Or run the whole pipeline, with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sources: []string{"work.ics"},
//	    Date:    "2024-03-04",
//	    Formats: []string{"svg"},
//	})
//
// # Main Packages
//
// ## Layout
//
// [core/layout] - Groups overlapping events and resolves their geometry.
// Four policies: overlap (cascading indents with a wider first event),
// nested (containers and rows), columns (side-by-side columns) and
// redistribute (columns that widen into free space).
//
// [slots] - A day grid between two clock times, divided into steps and
// timeslot groups. Implements the engine's slot metrics.
//
// [event] - The event record, its accessors and day filtering.
//
// ## Input
//
// [source] - Event sources: JSON, YAML and TOML files, iCalendar files and
// feeds ([source/ics], with recurrence expansion) and MongoDB collections
// ([source/mongo]).
//
// [io] - Reading and writing structured event files.
//
// [httputil] - Cached, conditional, retrying feed downloads.
//
// ## Output
//
// [render/text] - A lettered character grid for terminals.
//
// [render/svg] - A standalone SVG of the day.
//
// [render/hierarchy] - The grouping structure as a Graphviz graph.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - The load → layout → render pipeline used by the CLI and the
// HTTP server.
//
// [cache] - Layout cache backends (null, file, Redis) and key derivation.
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for logging or metrics around pipeline stages,
// cache lookups and feed requests.
//
// [errors] - Error codes and layout input validation errors.
//
// [buildinfo] - Version information injected at build time.
package pkg
