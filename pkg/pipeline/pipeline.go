// Package pipeline provides the load → layout → render pipeline for dayview.
//
// The CLI and the HTTP server both go through this package, so a day looks
// the same no matter how it was requested.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read events from files, iCalendar feeds or MongoDB
//  2. Layout: place the timed events of one day on its time grid
//  3. Render: produce JSON, text, SVG, PNG, PDF or a DOT hierarchy
//
// Each stage can be run independently or as part of the complete pipeline.
// Layouts are cached by a hash of the events and every option that changes
// the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Date:    "2024-03-04",
//	    Sources: []string{"work.ics"},
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	events, err := runner.Load(ctx, opts)
//	day, err := runner.Layout(ctx, events, opts)
//	artifacts, err := runner.Render(ctx, day, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/slots"
	"github.com/matzehuels/dayview/pkg/view"
)

// DefaultPolicy is used when Options.Policy is empty.
const DefaultPolicy = layout.PolicyOverlap

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatText: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
}

// Options contains all configuration for the pipeline. It is also the body
// of the HTTP layout request.
type Options struct {
	// Load options
	Sources []string `json:"sources,omitempty"`

	// Layout options
	Date     string `json:"date,omitempty"`     // YYYY-MM-DD, default today
	Timezone string `json:"timezone,omitempty"` // IANA name, default Local
	Policy   string `json:"policy,omitempty"`
	// MinimumStartDifference defaults to half a slot group.
	MinimumStartDifference *float64 `json:"min_start_diff,omitempty"`
	GridStart              string   `json:"grid_start,omitempty"` // HH:MM
	GridEnd                string   `json:"grid_end,omitempty"`   // HH:MM, 24:00 allowed
	Step                   int      `json:"step,omitempty"`
	Timeslots              int      `json:"timeslots,omitempty"`
	// Explain keeps the grouping structure in the result.
	Explain bool `json:"explain,omitempty"`
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	TextWidth int      `json:"text_width,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Now    func() time.Time `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Events    []event.Event
	Day       *view.Day
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EventCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, text, svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills empty fields.
func (o *Options) SetDefaults() {
	if o.Policy == "" {
		o.Policy = string(DefaultPolicy)
	}
	if o.Timezone == "" {
		o.Timezone = "Local"
	}
	if o.Step == 0 {
		o.Step = slots.DefaultStep
	}
	if o.Timeslots == 0 {
		o.Timeslots = slots.DefaultTimeslots
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// ValidateAndSetDefaults applies defaults and checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := errors.ValidatePolicy(o.Policy); err != nil {
		return err
	}
	if err := errors.ValidateTimezone(o.Timezone); err != nil {
		return err
	}
	if o.Date != "" {
		if _, err := time.Parse(time.DateOnly, o.Date); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "date %q: want YYYY-MM-DD", o.Date)
		}
	}
	if d := o.MinimumStartDifference; d != nil && *d < 0 {
		return errors.InvalidOption("min_start_diff", "must be non-negative, got %v", *d)
	}
	if _, _, err := o.bounds(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "grid")
	}
	if o.Step < 0 || o.Timeslots < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "step and timeslots must be positive")
	}
	for _, s := range o.Sources {
		if err := errors.ValidateSourcePath(s); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Location resolves Timezone.
func (o *Options) Location() (*time.Location, error) {
	return time.LoadLocation(o.Timezone)
}

// Day is midnight of the requested date in the requested zone.
func (o *Options) Day() (time.Time, error) {
	loc, err := o.Location()
	if err != nil {
		return time.Time{}, err
	}
	if o.Date == "" {
		return slots.StartOfDay(o.Now().In(loc)), nil
	}
	return time.ParseInLocation(time.DateOnly, o.Date, loc)
}

// Grid builds the time grid for day.
func (o *Options) Grid(day time.Time) (*slots.Grid, error) {
	from, to, err := o.bounds()
	if err != nil {
		return nil, err
	}
	opts := []slots.Option{slots.WithStep(o.Step), slots.WithTimeslots(o.Timeslots)}
	if to != 0 {
		opts = append(opts, slots.WithBounds(from, to))
	}
	return slots.New(day, opts...)
}

// LayoutOptions maps the options onto the engine.
func (o *Options) LayoutOptions(g *slots.Grid) []layout.Option {
	return []layout.Option{
		layout.WithPolicy(layout.Policy(o.Policy)),
		layout.WithMinimumStartDifference(o.minimumStartDifference(g)),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(g *slots.Grid) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Policy:                 o.Policy,
		MinimumStartDifference: o.minimumStartDifference(g),
		GridStart:              o.GridStart,
		GridEnd:                o.GridEnd,
		Step:                   o.Step,
		Timeslots:              o.Timeslots,
		Timezone:               o.Timezone,
		Nodes:                  o.Explain,
	}
}

func (o *Options) minimumStartDifference(g *slots.Grid) float64 {
	if o.MinimumStartDifference != nil {
		return *o.MinimumStartDifference
	}
	return g.MinimumStartDifference()
}

func (o *Options) bounds() (from, to time.Duration, err error) {
	return slots.ParseBounds(o.GridStart, o.GridEnd)
}
