package layout

import (
	"math"

	"github.com/matzehuels/dayview/pkg/errors"
)

// Policy selects the placement strategy.
type Policy string

const (
	// PolicyOverlap stacks overlapping events side by side and inflates
	// their widths so they visually overlap.
	PolicyOverlap Policy = "overlap"
	// PolicyNested groups events into non-inflated containers with nested
	// child containers for events that start after their row has ended.
	PolicyNested Policy = "nested"
	// PolicyColumns packs events into strictly non-overlapping columns.
	PolicyColumns Policy = "columns"
	// PolicyRedistribute packs columns and hands spare trailing width to
	// single-overlap neighbours on the left.
	PolicyRedistribute Policy = "redistribute"
)

// Policies lists every policy in display order.
var Policies = []Policy{PolicyOverlap, PolicyNested, PolicyColumns, PolicyRedistribute}

// PolicyFor maps the boolean eventOverlap selector onto the two
// container-based policies.
func PolicyFor(eventOverlap bool) Policy {
	if eventOverlap {
		return PolicyOverlap
	}
	return PolicyNested
}

// Options configures a layout pass.
type Options struct {
	Policy Policy
	// MinimumStartDifference is the start distance, in grid minutes, under
	// which two events count as starting together. Only PolicyOverlap
	// reads it.
	MinimumStartDifference float64
}

// Option configures Options.
type Option func(*Options)

// WithPolicy selects the placement policy.
func WithPolicy(p Policy) Option { return func(o *Options) { o.Policy = p } }

// WithEventOverlap selects PolicyOverlap or PolicyNested.
func WithEventOverlap(overlap bool) Option {
	return func(o *Options) { o.Policy = PolicyFor(overlap) }
}

// WithMinimumStartDifference sets the start threshold in grid minutes.
func WithMinimumStartDifference(d float64) Option {
	return func(o *Options) { o.MinimumStartDifference = d }
}

// NewOptions applies opts over the defaults (PolicyOverlap, no threshold).
func NewOptions(opts ...Option) Options {
	o := Options{Policy: PolicyOverlap}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate reports unusable options as *errors.ValidationError.
func (o Options) Validate() error {
	switch o.Policy {
	case PolicyOverlap, PolicyNested, PolicyColumns, PolicyRedistribute:
	default:
		return errors.InvalidOption("policy", "unknown policy %q", o.Policy)
	}
	d := o.MinimumStartDifference
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return errors.InvalidOption("minimum_start_difference", "must be a finite, non-negative number, got %v", d)
	}
	return nil
}
