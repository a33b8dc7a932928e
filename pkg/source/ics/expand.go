package ics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/matzehuels/dayview/pkg/event"
)

// DefaultMaxOccurrences caps the instances generated per series.
const DefaultMaxOccurrences = 5000

// ExpandOptions controls [Expand].
type ExpandOptions struct {
	// From and To bound the window; occurrences intersecting [From, To) are kept.
	From, To time.Time
	// Location converts every occurrence; nil keeps the entry's own zone.
	Location *time.Location
	// Calendar is copied into every event.
	Calendar string
	// MaxOccurrences caps each series; zero means DefaultMaxOccurrences.
	MaxOccurrences int
}

// Expansion is the outcome of [Expand].
type Expansion struct {
	Events []event.Event
	// Truncated lists the UIDs of series that hit MaxOccurrences.
	Truncated []string
}

// Expand turns entries into concrete events inside the window. Recurring
// entries are expanded with their RRULE minus EXDATEs, and instances with a
// matching RECURRENCE-ID override are replaced by the override. Events are
// sorted by start time, then UID.
func Expand(entries []Entry, opts ExpandOptions) (*Expansion, error) {
	if opts.To.Before(opts.From) {
		return nil, errors.New("expand: window ends before it starts")
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = DefaultMaxOccurrences
	}

	bases := make(map[string][]Entry)
	overrides := make(map[string][]Entry)
	var uids []string
	for _, e := range entries {
		if e.Override() {
			overrides[e.UID] = append(overrides[e.UID], e)
			continue
		}
		if _, seen := bases[e.UID]; !seen {
			uids = append(uids, e.UID)
		}
		bases[e.UID] = append(bases[e.UID], e)
	}

	out := &Expansion{}
	var errs []error
	for _, uid := range uids {
		truncated := false
		for _, base := range bases[uid] {
			events, hitCap, err := expandEntry(base, overrides[uid], opts)
			if err != nil {
				errs = append(errs, fmt.Errorf("uid %s: %w", uid, err))
				continue
			}
			truncated = truncated || hitCap
			out.Events = append(out.Events, events...)
		}
		if truncated {
			out.Truncated = append(out.Truncated, uid)
		}
	}

	// Overrides whose series is missing stand on their own.
	for uid, ovs := range overrides {
		if _, ok := bases[uid]; ok {
			continue
		}
		for _, o := range ovs {
			if intersects(o.Start, o.End, opts.From, opts.To) {
				out.Events = append(out.Events, toEvent(o, o.Start, o.End, opts))
			}
		}
	}

	sort.SliceStable(out.Events, func(i, j int) bool {
		a, b := out.Events[i], out.Events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})
	return out, errors.Join(errs...)
}

func expandEntry(base Entry, overrides []Entry, opts ExpandOptions) ([]event.Event, bool, error) {
	if base.RRule == "" {
		start, end, e := base.Start, base.End, base
		if o, ok := findOverride(overrides, base.Start); ok {
			start, end, e = o.Start, o.End, o
		}
		if !intersects(start, end, opts.From, opts.To) {
			return nil, false, nil
		}
		return []event.Event{toEvent(e, start, end, opts)}, false, nil
	}

	r, err := rrule.StrToRRule(base.RRule)
	if err != nil {
		return nil, false, fmt.Errorf("rrule %q: %w", base.RRule, err)
	}
	r.DTStart(base.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range base.ExDates {
		set.ExDate(ex.In(base.Start.Location()))
	}

	// Instances starting up to one duration before the window can still
	// reach into it.
	duration := base.End.Sub(base.Start)
	from := opts.From.Add(-duration).In(base.Start.Location())
	to := opts.To.In(base.Start.Location())
	starts := set.Between(from, to, true)

	hitCap := false
	if len(starts) > opts.MaxOccurrences {
		starts = starts[:opts.MaxOccurrences]
		hitCap = true
	}

	days := int(duration.Hours()/24 + 0.5)
	var out []event.Event
	for _, s := range starts {
		start, end, e := s, s.Add(duration), base
		if base.AllDay {
			start = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
			end = start.AddDate(0, 0, max(days, 1))
		}
		if o, ok := findOverride(overrides, s); ok {
			start, end, e = o.Start, o.End, o
		}
		if !intersects(start, end, opts.From, opts.To) {
			continue
		}
		ev := toEvent(e, start, end, opts)
		ev.ID = instanceID(base.UID, s)
		out = append(out, ev)
	}
	return out, hitCap, nil
}

// findOverride returns the override with the highest sequence whose
// RECURRENCE-ID equals start.
func findOverride(overrides []Entry, start time.Time) (Entry, bool) {
	var best Entry
	found := false
	for _, o := range overrides {
		if o.RecurrenceID == nil || !o.RecurrenceID.Equal(start) {
			continue
		}
		if !found || o.Sequence > best.Sequence {
			best, found = o, true
		}
	}
	return best, found
}

func toEvent(e Entry, start, end time.Time, opts ExpandOptions) event.Event {
	if opts.Location != nil {
		start, end = start.In(opts.Location), end.In(opts.Location)
	}
	return event.Event{
		ID:          e.UID,
		Title:       e.Summary,
		Start:       start,
		End:         end,
		AllDay:      e.AllDay,
		Calendar:    opts.Calendar,
		Location:    e.Location,
		Description: e.Description,
	}
}

func instanceID(uid string, start time.Time) string {
	return uid + "/" + start.UTC().Format(layoutUTC)
}

// intersects reports whether [start, end) meets [from, to). Zero-length
// events count when they fall inside the window.
func intersects(start, end, from, to time.Time) bool {
	if start.Equal(end) {
		return !start.Before(from) && start.Before(to)
	}
	return start.Before(to) && end.After(from)
}
