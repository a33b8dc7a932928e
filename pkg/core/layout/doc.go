// Package layout computes the horizontal geometry of events in a day view.
//
// # Overview
//
// Given events that share one day column, [Build] assigns each event a
// width, horizontal offset and stacking order so that events overlapping
// in time sit side by side while free time slots keep the full column
// width. Vertical geometry (top and height) comes from a [SlotMetrics]
// collaborator and is passed through unchanged.
//
// The engine never reads event records itself. An [Accessors] value
// extracts start and end times, and the slot metrics translate them into
// grid minutes and percentages. Time zones are the metrics' concern.
//
// # Pipeline
//
// Every policy shares the same pipeline:
//
//  1. Wrap: each event becomes a node in a per-call arena.
//  2. Sort: nodes are ordered by start ascending, then end descending.
//  3. Place: the policy groups nodes into containers/rows/leaves or columns.
//  4. Resolve: width, xOffset and zIndex are written into each node.
//  5. Emit: input events are returned with their styles in render order.
//
// # Policies
//
//   - [PolicyOverlap]: stacking with containers, rows and leaves. Widths
//     are inflated by 1.7 so neighbours visually overlap.
//   - [PolicyNested]: containers without inflation, plus nested child
//     containers and indented sibling containers.
//   - [PolicyColumns]: first-fit packing into non-overlapping columns.
//   - [PolicyRedistribute]: column packing that hands spare width to
//     single-overlap neighbours and stacks earlier events on top.
//
// Placement is order sensitive: the render order and the first-match
// scans decide which container or column an event joins.
//
// # Usage
//
//	acc := layout.AccessorFuncs[Meeting]{
//	    StartFunc: func(m Meeting) time.Time { return m.From },
//	    EndFunc:   func(m Meeting) time.Time { return m.To },
//	}
//	styled, err := layout.GetStyledEvents(meetings, acc, grid,
//	    layout.WithEventOverlap(true),
//	    layout.WithMinimumStartDifference(15))
//
// The engine holds no state between calls and is safe for concurrent use
// as long as the collaborators are.
package layout
