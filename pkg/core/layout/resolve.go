package layout

import "math"

const (
	fullWidth    = 100.0
	growthFactor = 1.7
	indentOffset = 2.0
)

// baseWidth is a node's width before overlap inflation, derived from the
// current state of the arena.
//
// Containers are as wide as one column of their widest row (plus one column
// for themselves when growing). Rows split what their container leaves
// free between themselves and their leaves. Leaves match their row.
func (g *graph) baseWidth(i int) float64 {
	n := &g.nodes[i]
	switch n.kind {
	case kindContainer:
		if !g.grow {
			return 0
		}
		columns := 1
		for _, r := range n.rows {
			columns = max(columns, len(g.nodes[r].leaves)+2)
		}
		return fullWidth / float64(columns)
	case kindRow:
		if n.container == none {
			return fullWidth / float64(len(n.leaves)+1)
		}
		c := &g.nodes[n.container]
		available := fullWidth - c.containerXOffset - g.baseWidth(n.container)
		return available / float64(len(n.leaves)+1)
	default:
		if n.row == none {
			return fullWidth
		}
		return g.baseWidth(n.row)
	}
}

// width is the rendered width. With inflation enabled containers always
// grow, rows grow when they have leaves, and leaves grow unless they are
// the last in their row so nothing passes the row's right edge.
func (g *graph) width(i int) float64 {
	base := g.baseWidth(i)
	if !g.grow {
		return base
	}
	grown := math.Min(fullWidth, base*growthFactor)

	n := &g.nodes[i]
	switch n.kind {
	case kindContainer:
		return grown
	case kindRow:
		if len(n.leaves) > 0 {
			return grown
		}
		return base
	default:
		if n.row == none || n.pos == len(g.nodes[n.row].leaves)-1 {
			return base
		}
		return grown
	}
}

// xOffset is the left edge of node i in percent of the column.
func (g *graph) xOffset(i int) float64 {
	n := &g.nodes[i]
	switch n.kind {
	case kindContainer:
		return 0
	case kindRow:
		if n.container == none {
			return 0
		}
		if g.grow {
			return g.baseWidth(n.container)
		}
		return g.nodes[n.container].containerXOffset
	default:
		if n.row == none {
			return 0
		}
		return g.xOffset(n.row) + float64(n.pos+1)*g.baseWidth(n.row)
	}
}

// resolveHierarchy writes width, xOffset and zIndex into every node of a
// container/row/leaf arena. It runs once, after all offsets are assigned.
func (g *graph) resolveHierarchy() {
	for i := range g.nodes {
		g.nodes[i].width = g.width(i)
		g.nodes[i].xOffset = g.xOffset(i)
		g.nodes[i].zIndex = int(math.Floor(g.nodes[i].xOffset))
	}
}
