package layout

import "math"

// overlapPlacer groups events into containers, rows and leaves so that
// overlapping events stack side by side with inflated widths.
type overlapPlacer struct {
	minStartDiff float64
}

func (p overlapPlacer) place(g *graph, order []int) {
	g.grow = true
	var containers []int

	for _, i := range order {
		c := p.findContainer(g, containers, i)
		if c == none {
			g.makeContainer(i)
			containers = append(containers, i)
			continue
		}
		g.nodes[i].container = c
		g.extend(c, g.nodes[i].end)

		if r := p.findRow(g, c, i); r != none {
			g.addLeaf(r, i)
		} else {
			g.addRow(c, i)
		}
	}

	g.resolveHierarchy()
}

// findContainer returns the first container, in creation order, that the
// event at i falls into. A container's buffer widens its end, so an event
// starting just after a long container still joins it.
func (p overlapPlacer) findContainer(g *graph, containers []int, i int) int {
	ev := &g.nodes[i]
	for _, c := range containers {
		cn := &g.nodes[c]
		if cn.containerEnd+cn.overlapBuffer > ev.start ||
			math.Abs(ev.start-cn.start) < p.minStartDiff {
			return c
		}
	}
	return none
}

// findRow scans the container's rows from the most recent backwards.
func (p overlapPlacer) findRow(g *graph, c, i int) int {
	rows := g.nodes[c].rows
	for j := len(rows) - 1; j >= 0; j-- {
		if onSameRow(&g.nodes[rows[j]], &g.nodes[i], p.minStartDiff) {
			return rows[j]
		}
	}
	return none
}

// onSameRow reports whether b belongs on row a: both occupy the same start
// slot, or b starts strictly inside a.
func onSameRow(a, b *node, minStartDiff float64) bool {
	return math.Abs(b.start-a.start) < minStartDiff ||
		(b.start > a.start && b.start < a.end)
}
