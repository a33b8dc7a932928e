package layout

// nestedPlacer lays events out without overlap inflation. Each container
// keeps a single row; events that start after the row's last member has
// ended open child containers anchored on an earlier member that is still
// running, so late events cascade next to the event they actually overlap.
type nestedPlacer struct{}

func (nestedPlacer) place(g *graph, order []int) {
	var roots, children []int

	for _, i := range order {
		start, end := g.nodes[i].start, g.nodes[i].end

		c := none
		for _, r := range roots {
			if g.nodes[r].containerEnd > start+g.nodes[r].overlapBuffer {
				c = r
				break
			}
		}
		if c == none {
			c = g.clone(i)
			g.makeContainer(c)
			g.nodes[c].rootContainer = c
			g.nodes[c].parentContainer = c
			roots = append(roots, c)
		}
		g.nodes[i].container = c
		g.extend(c, end)

		// The most recent child container still running captures the event.
		for k := len(children) - 1; k >= 0; k-- {
			cc := children[k]
			if g.nodes[cc].start <= start && g.nodes[cc].containerEnd > start {
				c = cc
				g.nodes[i].container = c
				g.growChild(c, end)
				break
			}
		}

		row := none
		if rows := g.nodes[c].rows; len(rows) > 0 {
			row = rows[0]
		}

		if row != none {
			members := g.members(row)
			if start >= g.nodes[members[len(members)-1]].end {
				anchor := none
				for k := len(members) - 1; k >= 0; k-- {
					if g.nodes[members[k]].end > start {
						anchor = members[k]
						break
					}
				}
				// Without a running member the new container becomes a
				// sibling of the current one, anchored on the container itself.
				sibling := anchor == none
				if sibling {
					anchor = g.nodes[row].container
				}

				nc := g.clone(anchor)
				g.makeContainer(nc)
				if sibling {
					g.nodes[nc].parentContainer = g.nodes[c].parentContainer
				} else {
					g.nodes[nc].parentContainer = c
				}
				g.nodes[nc].rootContainer = g.nodes[c].rootContainer
				c = nc
				children = append(children, nc)
				row = none
				g.nodes[i].container = c
				g.growChild(c, end)
			}
		}

		if row != none {
			g.addLeaf(row, i)
		} else {
			g.addRow(c, i)
		}
	}

	assignContainerXOffsets(g, roots)
	assignChildContainerXOffsets(g, children)
	g.resolveHierarchy()
}

// growChild extends child container c to end and propagates the growth to
// its root container.
func (g *graph) growChild(c int, end float64) {
	if end <= g.nodes[c].containerEnd {
		return
	}
	g.nodes[c].containerEnd = end
	root := g.nodes[c].rootContainer
	if root == none {
		return
	}
	rn := &g.nodes[root]
	rn.containerEnd = max(end, rn.containerEnd)
	rn.overlapBuffer = overlapBuffer(rn.containerEnd - rn.start)
}

// assignContainerXOffsets cascades root containers whose start falls inside
// the previous container's first row by indentOffset.
func assignContainerXOffsets(g *graph, roots []int) {
	if len(roots) < 2 {
		return
	}
	g.nodes[roots[0]].containerXOffset = 0

	for k := 1; k < len(roots); k++ {
		prev, cur := &g.nodes[roots[k-1]], &g.nodes[roots[k]]
		cur.containerXOffset = 0
		if prev.containerEnd <= cur.start || len(prev.rows) == 0 {
			continue
		}
		if g.nodes[prev.rows[0]].end > cur.start {
			cur.containerXOffset = prev.containerXOffset + indentOffset
		}
	}
}

// assignChildContainerXOffsets places each child container at the offset of
// the member that follows its anchor in the parent's first row. Children
// are processed in creation order because offsets read earlier results.
func assignChildContainerXOffsets(g *graph, children []int) {
	for _, cc := range children {
		parent := g.nodes[cc].parentContainer
		if parent == none || len(g.nodes[parent].rows) == 0 {
			continue
		}
		members := g.members(g.nodes[parent].rows[0])
		for k := 0; k < len(members)-1; k++ {
			m := &g.nodes[members[k]]
			if g.nodes[cc].start == m.start && g.nodes[cc].end == m.end {
				g.nodes[cc].containerXOffset = g.xOffset(members[k+1])
			}
		}
	}
}
