package layout

import "math"

// overlapFunc reports whether other blocks ev from sharing a column.
type overlapFunc func(ev, other *node) bool

// endsAfterStart is the simple predicate: other is still running when ev
// starts. With events in render order this is the column-packing test.
func endsAfterStart(ev, other *node) bool {
	return other.end > ev.start
}

// intersects is the symmetric half-open interval intersection test.
func intersects(a, b *node) bool {
	return a.start < b.end && b.start < a.end
}

// columnPlacer packs events into the first column whose members do not
// overlap them. Events then widen to the right until the first column
// holding an overlapping event.
type columnPlacer struct {
	overlaps     overlapFunc
	redistribute bool
}

func (p columnPlacer) place(g *graph, order []int) {
	columns := p.pack(g, order)
	p.position(g, order, columns)

	if p.redistribute {
		redistribute(g, order, columns, p.overlaps)
		// Earlier events in render order draw on top.
		for rank, i := range order {
			g.nodes[i].zIndex = len(order) - 1 - rank
		}
		return
	}
	for _, i := range order {
		g.nodes[i].zIndex = int(math.Floor(g.nodes[i].xOffset))
	}
}

func (p columnPlacer) pack(g *graph, order []int) [][]int {
	var columns [][]int
	for _, i := range order {
		placed := false
		for ci, col := range columns {
			if p.anyOverlaps(g, i, col) {
				continue
			}
			g.nodes[i].column = ci
			columns[ci] = append(col, i)
			placed = true
			break
		}
		if !placed {
			g.nodes[i].column = len(columns)
			columns = append(columns, []int{i})
		}
	}
	return columns
}

func (p columnPlacer) position(g *graph, order []int, columns [][]int) {
	if len(columns) == 0 {
		return
	}
	perColumn := fullWidth / float64(len(columns))

	for _, i := range order {
		n := &g.nodes[i]
		stop := len(columns)
		for k := n.column + 1; k < len(columns); k++ {
			if p.anyOverlaps(g, i, columns[k]) {
				stop = k
				break
			}
		}
		n.width = float64(stop-n.column) * perColumn
		n.xOffset = float64(n.column) * perColumn
	}
}

func (p columnPlacer) anyOverlaps(g *graph, i int, col []int) bool {
	for _, j := range col {
		if p.overlaps(&g.nodes[i], &g.nodes[j]) {
			return true
		}
	}
	return false
}

// redistribute lets events wider than one column share their spare width
// with a chain of left neighbours. Walking left from the event's column,
// a neighbour joins the chain when it is the only event in its column
// overlapping the current frontier and the frontier is the only event to
// its right it overlaps. The chain's combined width is then split evenly.
// Events are processed in render order and adjusted events are never
// redistributed again, so the outcome depends on that order.
func redistribute(g *graph, order []int, columns [][]int, overlaps overlapFunc) {
	if len(columns) == 0 {
		return
	}
	perColumn := fullWidth / float64(len(columns))
	const eps = 1e-9

	for _, i := range order {
		ev := &g.nodes[i]
		if ev.adjusted || ev.width <= perColumn+eps {
			continue
		}

		var stack []int
		total := ev.width
		frontier := i
		for col := ev.column; col > 0; col-- {
			neighbours := overlappersIn(g, frontier, columns[col-1], overlaps)
			if len(neighbours) != 1 {
				break
			}
			nb := neighbours[0]
			if g.nodes[nb].adjusted || countRightOverlappers(g, nb, columns, overlaps) != 1 {
				break
			}
			stack = append(stack, nb)
			total += g.nodes[nb].width
			frontier = nb
		}
		if len(stack) == 0 {
			continue
		}

		// Left to right: deepest neighbour first, the event itself last.
		chain := make([]int, 0, len(stack)+1)
		for k := len(stack) - 1; k >= 0; k-- {
			chain = append(chain, stack[k])
		}
		chain = append(chain, i)

		left := g.nodes[chain[0]].xOffset
		share := total / float64(len(chain))
		for k, j := range chain {
			g.nodes[j].xOffset = left + float64(k)*share
			g.nodes[j].width = share
			g.nodes[j].adjusted = true
		}
	}
}

func overlappersIn(g *graph, i int, col []int, overlaps overlapFunc) []int {
	var out []int
	for _, j := range col {
		if overlaps(&g.nodes[i], &g.nodes[j]) {
			out = append(out, j)
		}
	}
	return out
}

// countRightOverlappers counts events right of i's column that overlap i.
func countRightOverlappers(g *graph, i int, columns [][]int, overlaps overlapFunc) int {
	count := 0
	for k := g.nodes[i].column + 1; k < len(columns); k++ {
		count += len(overlappersIn(g, i, columns[k], overlaps))
	}
	return count
}
