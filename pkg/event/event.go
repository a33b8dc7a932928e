// Package event defines the calendar event record used by dayview's
// sources, pipeline and renderers.
//
// The layout engine is generic over event types; [Accessors] adapts
// [Event] to it. Sources produce events in any time zone. [ForDay] selects
// the timed events that belong on one day's grid.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dayview/pkg/core/layout"
)

// Event is one calendar entry.
type Event struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Title       string    `json:"title" yaml:"title" toml:"title"`
	Start       time.Time `json:"start" yaml:"start" toml:"start"`
	End         time.Time `json:"end" yaml:"end" toml:"end"`
	AllDay      bool      `json:"allDay,omitempty" yaml:"all_day,omitempty" toml:"all_day,omitempty"`
	Calendar    string    `json:"calendar,omitempty" yaml:"calendar,omitempty" toml:"calendar,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Duration is End minus Start.
func (e Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// In returns a copy of e with its times converted to loc.
func (e Event) In(loc *time.Location) Event {
	e.Start = e.Start.In(loc)
	e.End = e.End.In(loc)
	return e
}

// Accessors reads event times for the layout engine.
var Accessors = layout.AccessorFuncs[Event]{
	StartFunc: func(e Event) time.Time { return e.Start },
	EndFunc:   func(e Event) time.Time { return e.End },
}

// ForDay returns the timed events intersecting the calendar day of day, in
// input order. All-day events are dropped; they have no place on the time
// grid. Zero-length events count when they fall inside the day.
func ForDay(events []Event, day time.Time) []Event {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		if e.Start.Equal(e.End) {
			if !e.Start.Before(from) && e.Start.Before(to) {
				out = append(out, e)
			}
			continue
		}
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e)
		}
	}
	return out
}

// AllDay returns the all-day events touching the calendar day of day.
func AllDay(events []Event, day time.Time) []Event {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	var out []Event
	for _, e := range events {
		if e.AllDay && e.Start.Before(to) && (e.End.After(from) || e.Start.Equal(from)) {
			out = append(out, e)
		}
	}
	return out
}

// AssignIDs gives every event without an ID a name-based UUID derived from
// its title, times and calendar, in place. Identical events are told apart
// by their position among each other, so IDs are stable across loads.
func AssignIDs(events []Event) {
	seen := make(map[string]int)
	for i := range events {
		e := &events[i]
		if e.ID != "" {
			continue
		}
		name := fmt.Sprintf("%s|%s|%s|%s", e.Title,
			e.Start.UTC().Format(time.RFC3339Nano), e.End.UTC().Format(time.RFC3339Nano), e.Calendar)
		n := seen[name]
		seen[name]++
		e.ID = uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s|%d", name, n)).String()
	}
}
