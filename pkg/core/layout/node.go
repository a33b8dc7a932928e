package layout

// none marks an absent arena reference.
const none = -1

type nodeKind uint8

const (
	kindLeaf nodeKind = iota
	kindRow
	kindContainer
)

// node is one positioned event in the arena. Relationships are indices into
// graph.nodes so upward and sideways traversal never holds live pointers.
type node struct {
	event int // index into the caller's input, or none for synthetic containers

	start, end      float64 // minutes from the top of the grid
	startMs, endMs  int64
	top, height     float64
	kind            nodeKind
	container, row  int
	rows, leaves    []int
	pos             int // position among the row's leaves
	parentContainer int
	rootContainer   int

	containerEnd     float64
	overlapBuffer    float64
	containerXOffset float64

	column   int
	adjusted bool

	width, xOffset float64
	zIndex         int
}

// graph is the per-call arena. It is never shared between calls.
type graph struct {
	nodes []node
	grow  bool // overlap inflation enabled
}

func newGraph(capacity int) *graph {
	return &graph{nodes: make([]node, 0, capacity)}
}

// add appends a detached leaf copy of geometry and returns its index.
func (g *graph) add(event int, r Range) int {
	g.nodes = append(g.nodes, node{
		event:           event,
		start:           r.Start,
		end:             r.End,
		startMs:         r.StartDate.UnixMilli(),
		endMs:           r.EndDate.UnixMilli(),
		top:             r.Top,
		height:          r.Height,
		container:       none,
		row:             none,
		parentContainer: none,
		rootContainer:   none,
		containerEnd:    r.End,
		column:          none,
	})
	return len(g.nodes) - 1
}

// clone adds a synthetic node carrying the geometry of node src.
func (g *graph) clone(src int) int {
	s := g.nodes[src]
	g.nodes = append(g.nodes, node{
		event:           none,
		start:           s.start,
		end:             s.end,
		startMs:         s.startMs,
		endMs:           s.endMs,
		top:             s.top,
		height:          s.height,
		container:       none,
		row:             none,
		parentContainer: none,
		rootContainer:   none,
		containerEnd:    s.end,
		column:          none,
	})
	return len(g.nodes) - 1
}

// makeContainer turns node i into a container with no rows.
func (g *graph) makeContainer(i int) {
	n := &g.nodes[i]
	n.kind = kindContainer
	n.rows = []int{}
	n.overlapBuffer = overlapBuffer(n.containerEnd - n.start)
}

// addRow attaches node i to container c as a new row.
func (g *graph) addRow(c, i int) {
	n := &g.nodes[i]
	n.kind = kindRow
	n.leaves = []int{}
	n.container = c
	g.nodes[c].rows = append(g.nodes[c].rows, i)
}

// addLeaf attaches node i to row r.
func (g *graph) addLeaf(r, i int) {
	n := &g.nodes[i]
	n.kind = kindLeaf
	n.row = r
	n.pos = len(g.nodes[r].leaves)
	g.nodes[r].leaves = append(g.nodes[r].leaves, i)
}

// extend grows container c to cover end and refreshes its buffer.
// Reports whether the container grew.
func (g *graph) extend(c int, end float64) bool {
	n := &g.nodes[c]
	if end <= n.containerEnd {
		return false
	}
	n.containerEnd = end
	n.overlapBuffer = overlapBuffer(n.containerEnd - n.start)
	return true
}

// members returns row r followed by its leaves.
func (g *graph) members(r int) []int {
	out := make([]int, 0, len(g.nodes[r].leaves)+1)
	out = append(out, r)
	return append(out, g.nodes[r].leaves...)
}

const (
	longContainer     = 30 // minutes
	longContainerSlop = 5  // minutes
)

// overlapBuffer is the start-time tolerance granted to a container spanning
// duration minutes.
func overlapBuffer(duration float64) float64 {
	if duration >= longContainer {
		return longContainerSlop
	}
	return 0
}
