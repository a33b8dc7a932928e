// Package slots implements the vertical time grid of a day view.
//
// A [Grid] spans one day between a minimum and a maximum clock time and is
// divided into steps of a fixed number of minutes, grouped into timeslots.
// It implements layout.SlotMetrics: times are clamped to the grid and
// converted to minutes from its top and to percentages of its height.
package slots

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/dayview/pkg/core/layout"
)

// Defaults used by [New].
const (
	DefaultStep      = 30 // minutes
	DefaultTimeslots = 2  // steps per group
)

// Grid is a day grid. It is immutable after construction and safe for
// concurrent use.
type Grid struct {
	min, max  time.Time
	step      int
	timeslots int
	total     float64 // minutes between min and max
}

// Option configures a Grid.
type Option func(*config)

type config struct {
	from, to  time.Duration
	step      int
	timeslots int
}

// WithBounds limits the grid to the clock range [from, to) after midnight.
func WithBounds(from, to time.Duration) Option {
	return func(c *config) { c.from, c.to = from, to }
}

// WithStep sets the step length in minutes.
func WithStep(minutes int) Option { return func(c *config) { c.step = minutes } }

// WithTimeslots sets the number of steps per slot group.
func WithTimeslots(n int) Option { return func(c *config) { c.timeslots = n } }

// New builds a grid for the calendar day of day, in day's location.
// Without bounds the grid covers midnight to midnight, so DST days are 23
// or 25 hours long.
func New(day time.Time, opts ...Option) (*Grid, error) {
	c := config{step: DefaultStep, timeslots: DefaultTimeslots}
	for _, opt := range opts {
		opt(&c)
	}
	if c.step <= 0 {
		return nil, fmt.Errorf("slots: step must be positive, got %d", c.step)
	}
	if c.timeslots <= 0 {
		return nil, fmt.Errorf("slots: timeslots must be positive, got %d", c.timeslots)
	}

	midnight := StartOfDay(day)
	g := &Grid{step: c.step, timeslots: c.timeslots}
	if c.from == 0 && c.to == 0 {
		g.min, g.max = midnight, midnight.AddDate(0, 0, 1)
	} else {
		if c.from < 0 || c.to > 24*time.Hour || c.to <= c.from {
			return nil, fmt.Errorf("slots: invalid bounds %s-%s", FormatClock(c.from), FormatClock(c.to))
		}
		g.min, g.max = midnight.Add(c.from), midnight.Add(c.to)
	}
	g.total = g.max.Sub(g.min).Minutes()
	return g, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Min is the top of the grid.
func (g *Grid) Min() time.Time { return g.min }

// Max is the bottom of the grid.
func (g *Grid) Max() time.Time { return g.max }

// Step is the step length in minutes.
func (g *Grid) Step() int { return g.step }

// Timeslots is the number of steps per group.
func (g *Grid) Timeslots() int { return g.timeslots }

// TotalMinutes is the grid height in minutes.
func (g *Grid) TotalMinutes() float64 { return g.total }

// MinimumStartDifference is half a slot group, rounded up. Events starting
// closer than this are treated as starting together.
func (g *Grid) MinimumStartDifference() float64 {
	return math.Ceil(float64(g.step*g.timeslots) / 2)
}

// GetRange clamps [start, end) to the grid and measures it.
func (g *Grid) GetRange(start, end time.Time) layout.Range {
	s := clamp(start, g.min, g.max)
	e := clamp(end, s, g.max)

	top := s.Sub(g.min).Minutes()
	bottom := e.Sub(g.min).Minutes()
	r := layout.Range{
		Start:     top,
		End:       bottom,
		StartDate: s,
		EndDate:   e,
	}
	if g.total > 0 {
		r.Top = top / g.total * 100
		r.Height = (bottom - top) / g.total * 100
	}
	return r
}

// Groups returns the start time of every slot group, top to bottom.
func (g *Grid) Groups() []time.Time {
	span := time.Duration(g.step*g.timeslots) * time.Minute
	var out []time.Time
	for t := g.min; t.Before(g.max); t = t.Add(span) {
		out = append(out, t)
	}
	return out
}

// Offset returns the grid position of t in percent, clamped to [0, 100].
func (g *Grid) Offset(t time.Time) float64 {
	if g.total <= 0 {
		return 0
	}
	return clamp(t, g.min, g.max).Sub(g.min).Minutes() / g.total * 100
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// ParseClock parses "HH:MM" into a duration after midnight. "24:00" is
// accepted as the end of the day.
func ParseClock(s string) (time.Duration, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// ParseBounds parses an "HH:MM" clock range for [WithBounds]. Empty ends
// default to 00:00 and 24:00. A full day yields (0, 0), which [New] treats
// as midnight to midnight.
func ParseBounds(start, end string) (from, to time.Duration, err error) {
	if start == "" && end == "" {
		return 0, 0, nil
	}
	if start == "" {
		start = "00:00"
	}
	if end == "" {
		end = "24:00"
	}
	if from, err = ParseClock(start); err != nil {
		return 0, 0, err
	}
	if to, err = ParseClock(end); err != nil {
		return 0, 0, err
	}
	if to <= from {
		return 0, 0, fmt.Errorf("end %s is not after start %s", end, start)
	}
	if from == 0 && to == 24*time.Hour {
		return 0, 0, nil
	}
	return from, to, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
