package layout

import (
	"math"
	"time"

	"github.com/matzehuels/dayview/pkg/errors"
)

// Range is the slot-metrics view of one event. Start and End are minutes
// from the top of the grid; Top and Height are percentages of its height.
type Range struct {
	Start     float64
	End       float64
	StartDate time.Time
	EndDate   time.Time
	Top       float64
	Height    float64
}

// SlotMetrics maps a time range onto the day grid. Implementations must be
// pure functions of their input for the engine to be safe for concurrent use.
type SlotMetrics interface {
	GetRange(start, end time.Time) Range
}

// Accessors reads the time range of an opaque event record.
type Accessors[E any] interface {
	Start(E) time.Time
	End(E) time.Time
}

// AccessorFuncs adapts a pair of functions to [Accessors].
type AccessorFuncs[E any] struct {
	StartFunc func(E) time.Time
	EndFunc   func(E) time.Time
}

// Start calls StartFunc.
func (a AccessorFuncs[E]) Start(e E) time.Time { return a.StartFunc(e) }

// End calls EndFunc.
func (a AccessorFuncs[E]) End(e E) time.Time { return a.EndFunc(e) }

// Style is the computed geometry of one event. Width and XOffset are
// percentages of the day column.
type Style struct {
	Top     float64 `json:"top"`
	Height  float64 `json:"height"`
	Width   float64 `json:"width"`
	XOffset float64 `json:"xOffset"`
	ZIndex  int     `json:"zIndex"`
}

// StyledEvent pairs a caller's event with its style.
type StyledEvent[E any] struct {
	Event E     `json:"event"`
	Style Style `json:"style"`
}

// placer is the pluggable grouping/placement strategy. It receives the
// arena and the render order and must leave width, xOffset and zIndex
// resolved on every node that maps to an input event.
type placer interface {
	place(g *graph, order []int)
}

func newPlacer(o Options) placer {
	switch o.Policy {
	case PolicyNested:
		return nestedPlacer{}
	case PolicyColumns:
		return columnPlacer{overlaps: endsAfterStart}
	case PolicyRedistribute:
		return columnPlacer{overlaps: intersects, redistribute: true}
	default:
		return overlapPlacer{minStartDiff: o.MinimumStartDifference}
	}
}

// Result is the outcome of one layout pass.
type Result[E any] struct {
	// Events holds every input event with its style, in render order.
	Events []StyledEvent[E]
	// Order holds the input index of each entry of Events.
	Order []int
	// Nodes describes the grouping structure that produced the styles.
	Nodes []Node
}

// Build computes the layout of events in a single day column.
//
// Events are wrapped through accessors and metrics, sorted into render
// order, grouped by the configured policy, resolved to styles and returned
// in render order. An empty input yields an empty result. Malformed ranges
// yield an *errors.ValidationError and no partial result.
func Build[E any](events []E, acc Accessors[E], metrics SlotMetrics, opts ...Option) (*Result[E], error) {
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	g := newGraph(len(events))
	for i, e := range events {
		start, end := acc.Start(e), acc.End(e)
		if err := checkTimes(i, start, end); err != nil {
			return nil, err
		}
		r := metrics.GetRange(start, end)
		if err := checkRange(i, r); err != nil {
			return nil, err
		}
		g.add(i, r)
	}

	order := renderOrder(g, len(events))
	newPlacer(o).place(g, order)

	res := &Result[E]{
		Events: make([]StyledEvent[E], 0, len(events)),
		Order:  make([]int, 0, len(events)),
		Nodes:  exportNodes(g, o.Policy),
	}
	for _, i := range order {
		n := &g.nodes[i]
		res.Order = append(res.Order, n.event)
		res.Events = append(res.Events, StyledEvent[E]{
			Event: events[n.event],
			Style: Style{
				Top:     n.top,
				Height:  n.height,
				Width:   n.width,
				XOffset: n.xOffset,
				ZIndex:  n.zIndex,
			},
		})
	}
	return res, nil
}

// GetStyledEvents is Build without the grouping structure.
func GetStyledEvents[E any](events []E, acc Accessors[E], metrics SlotMetrics, opts ...Option) ([]StyledEvent[E], error) {
	res, err := Build(events, acc, metrics, opts...)
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}

func checkTimes(i int, start, end time.Time) error {
	if start.IsZero() {
		return errors.Invalid(i, "start", "missing start time")
	}
	if end.IsZero() {
		return errors.Invalid(i, "end", "missing end time")
	}
	if end.Before(start) {
		return errors.Invalid(i, "end", "end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

func checkRange(i int, r Range) error {
	for _, v := range []float64{r.Start, r.End, r.Top, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Invalid(i, "range", "slot metrics returned a non-finite value")
		}
	}
	if r.End < r.Start {
		return errors.Invalid(i, "range", "slot range end %.2f is before start %.2f", r.End, r.Start)
	}
	return nil
}
