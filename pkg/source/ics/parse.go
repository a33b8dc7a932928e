package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ErrEmpty is returned for an empty payload.
var ErrEmpty = errors.New("empty calendar")

// Entry is one VEVENT before recurrence expansion.
type Entry struct {
	UID         string
	Sequence    int
	Summary     string
	Description string
	Location    string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time
	// RecurrenceID is set on entries overriding one instance of a series.
	RecurrenceID *time.Time
}

// Override reports whether the entry replaces one instance of a series.
func (e Entry) Override() bool { return e.RecurrenceID != nil }

// Parse decodes an iCalendar payload. Floating times are read in loc; a nil
// loc means UTC. VEVENTs that cannot be decoded are skipped and returned as
// a joined error next to the entries that could.
func Parse(r io.Reader, loc *time.Location) ([]Entry, error) {
	if loc == nil {
		loc = time.UTC
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var (
		entries []Entry
		errs    []error
	)
	for i, ve := range cal.Events() {
		e, err := parseEvent(ve, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("vevent %d: %w", i, err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, errors.Join(errs...)
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (Entry, error) {
	var e Entry

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return e, errors.New("missing UID")
	}
	e.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySequence); p != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
			e.Sequence = n
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		e.Location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return e, errors.New("missing DTSTART")
	}
	start, err := propertyTime(dtStart, loc)
	if err != nil {
		return e, fmt.Errorf("DTSTART: %w", err)
	}
	e.Start = start
	e.AllDay = isDate(dtStart)

	switch dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); {
	case dtEnd != nil:
		end, err := propertyTime(dtEnd, loc)
		if err != nil {
			return e, fmt.Errorf("DTEND: %w", err)
		}
		e.End = end
	case e.AllDay:
		e.End = e.Start.AddDate(0, 0, 1)
	default:
		e.End = e.Start
	}
	if e.End.Before(e.Start) {
		return e, fmt.Errorf("DTEND %s before DTSTART %s", e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		e.RRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := parseTime(part, tzid(p.ICalParameters), loc)
			if err != nil {
				return e, fmt.Errorf("EXDATE: %w", err)
			}
			e.ExDates = append(e.ExDates, t)
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		t, err := parseTime(p.Value, tzid(p.ICalParameters), loc)
		if err != nil {
			return e, fmt.Errorf("RECURRENCE-ID: %w", err)
		}
		e.RecurrenceID = &t
	}
	return e, nil
}

func propertyTime(p *ical.IANAProperty, loc *time.Location) (time.Time, error) {
	return parseTime(p.Value, tzid(p.ICalParameters), loc)
}

func isDate(p *ical.IANAProperty) bool {
	if vs := p.ICalParameters["VALUE"]; len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func tzid(params map[string][]string) string {
	if vs := params["TZID"]; len(vs) > 0 {
		return strings.Trim(vs[0], `"`)
	}
	return ""
}

const (
	layoutUTC      = "20060102T150405Z"
	layoutFloating = "20060102T150405"
	layoutDate     = "20060102"
)

// parseTime decodes DATE and DATE-TIME values. UTC values ignore tz; other
// values are read in the TZID zone when it is known, else in loc.
func parseTime(v, tz string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse(layoutUTC, v)
	}
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation(layoutFloating, v, loc)
	}
	return time.ParseInLocation(layoutDate, v, loc)
}
