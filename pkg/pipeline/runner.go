package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/observability"
	"github.com/matzehuels/dayview/pkg/source"
	"github.com/matzehuels/dayview/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Sources configures how Load opens source locations. Zone is set per
	// call from Options.Timezone.
	Sources source.Options
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	result := &Result{}

	loadStart := time.Now()
	events, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Events = events
	result.Stats.EventCount = len(events)
	result.Stats.LoadTime = time.Since(loadStart)
	r.Logger.Info("loaded events", "events", len(events), "duration", result.Stats.LoadTime)

	layoutStart := time.Now()
	day, hit, err := r.LayoutWithCacheInfo(ctx, events, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Day = day
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"date", day.Date,
		"items", len(day.Items),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, day, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the events of the requested day from every source in
// opts.Sources, converted to the requested zone. Events without an ID get
// one.
func (r *Runner) Load(ctx context.Context, opts Options) ([]event.Event, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(opts.Sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no event sources given")
	}
	loc, _ := opts.Location()
	day, err := opts.Day()
	if err != nil {
		return nil, err
	}

	so := r.Sources
	so.Zone = loc
	var multi source.Multi
	defer func() { _ = source.Close(context.WithoutCancel(ctx), multi) }()
	for _, location := range opts.Sources {
		s, err := source.Open(ctx, location, so)
		if err != nil {
			return nil, err
		}
		multi = append(multi, s)
	}

	hooks := observability.Pipeline()
	name := multi.Name()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()
	events, err := multi.Events(ctx, day, day.AddDate(0, 0, 1))
	hooks.OnLoadComplete(ctx, name, len(events), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for i := range events {
		events[i] = events[i].In(loc)
	}
	event.AssignIDs(events)
	return events, nil
}

// LayoutWithCacheInfo lays out the requested day of events and reports
// whether the result came from the cache. Events outside the day are
// ignored; all-day events are carried along without geometry.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, events []event.Event, opts Options) (*view.Day, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	loc, _ := opts.Location()
	day, err := opts.Day()
	if err != nil {
		return nil, false, err
	}
	grid, err := opts.Grid(day)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidOptions, err, "grid")
	}

	local := make([]event.Event, len(events))
	for i, e := range events {
		local[i] = e.In(loc)
	}

	eventsHash, err := cache.HashJSON(local)
	if err != nil {
		return nil, false, fmt.Errorf("hash events: %w", err)
	}
	key := r.Keyer.LayoutKey(eventsHash, day, opts.LayoutKeyOpts(grid))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := view.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	event.AssignIDs(local)
	timed := event.ForDay(local, day)

	ph := observability.Pipeline()
	ph.OnLayoutStart(ctx, opts.Policy, len(timed))
	start := time.Now()
	res, err := layout.Build(timed, event.Accessors, grid, opts.LayoutOptions(grid)...)
	ph.OnLayoutComplete(ctx, opts.Policy, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	out := &view.Day{
		Date:                   day.Format(time.DateOnly),
		Timezone:               loc.String(),
		Policy:                 opts.Policy,
		MinimumStartDifference: opts.minimumStartDifference(grid),
		Grid: view.Grid{
			Start:     grid.Min(),
			End:       grid.Max(),
			Step:      grid.Step(),
			Timeslots: grid.Timeslots(),
			Groups:    grid.Groups(),
		},
		Items:  res.Events,
		AllDay: event.AllDay(local, day),
	}
	if opts.Explain {
		out.Nodes = renumber(res)
	}

	if data, err := view.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return out, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, events []event.Event, opts Options) (*view.Day, error) {
	day, _, err := r.LayoutWithCacheInfo(ctx, events, opts)
	return day, err
}

// renumber points node events at render positions instead of input
// positions.
func renumber(res *layout.Result[event.Event]) []layout.Node {
	pos := make(map[int]int, len(res.Order))
	for p, i := range res.Order {
		pos[i] = p
	}
	nodes := make([]layout.Node, len(res.Nodes))
	for i, n := range res.Nodes {
		if n.Event >= 0 {
			n.Event = pos[n.Event]
		}
		nodes[i] = n
	}
	return nodes
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
