package cache

import "time"

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	Policy                 string  `json:"policy"`
	MinimumStartDifference float64 `json:"min_start_diff"`
	GridStart              string  `json:"grid_start,omitempty"`
	GridEnd                string  `json:"grid_end,omitempty"`
	Step                   int     `json:"step,omitempty"`
	Timeslots              int     `json:"timeslots,omitempty"`
	Timezone               string  `json:"tz,omitempty"`
	Nodes                  bool    `json:"nodes,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey names the layout of one day's events.
	LayoutKey(eventsHash string, day time.Time, opts LayoutKeyOpts) string
	// EventsKey names the events loaded from a source for one day.
	EventsKey(source string, day time.Time) string
}

// DefaultKeyer produces "layout:<sha256>" and "events:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the events hash, the day and every option.
func (DefaultKeyer) LayoutKey(eventsHash string, day time.Time, opts LayoutKeyOpts) string {
	return hashKey("layout", eventsHash, day.Format(time.DateOnly), opts)
}

// EventsKey hashes the source name and the day.
func (DefaultKeyer) EventsKey(source string, day time.Time) string {
	return hashKey("events", source, day.Format(time.DateOnly), day.Location().String())
}

// ScopedKeyer prefixes every key, isolating tenants or API versions that
// share one backend:
//
//	keys := cache.NewScopedKeyer(nil, "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey prefixes the inner layout key.
func (k *ScopedKeyer) LayoutKey(eventsHash string, day time.Time, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(eventsHash, day, opts)
}

// EventsKey prefixes the inner events key.
func (k *ScopedKeyer) EventsKey(source string, day time.Time) string {
	return k.prefix + k.inner.EventsKey(source, day)
}
