package layout

// NodeKind classifies an exported node.
type NodeKind string

const (
	KindContainer NodeKind = "container"
	KindRow       NodeKind = "row"
	KindLeaf      NodeKind = "leaf"
	// KindColumn marks events placed by the column policies.
	KindColumn NodeKind = "column"
)

// Node is a read-only view of one arena node, for debugging and diagrams.
type Node struct {
	ID     int      `json:"id"`
	Kind   NodeKind `json:"kind"`
	Event  int      `json:"event"`  // input index, -1 for synthetic containers
	Parent int      `json:"parent"` // owning container/row, or parent container for containers; -1 if none
	Column int      `json:"column"` // column index for the column policies, else -1

	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	ContainerEnd float64 `json:"containerEnd,omitempty"`
	Indent       float64 `json:"indent,omitempty"`
	Width        float64 `json:"width"`
	XOffset      float64 `json:"xOffset"`
	Adjusted     bool    `json:"adjusted,omitempty"`
}

// Synthetic reports whether the node has no input event behind it.
func (n Node) Synthetic() bool { return n.Event < 0 }

func exportNodes(g *graph, p Policy) []Node {
	columnar := p == PolicyColumns || p == PolicyRedistribute
	out := make([]Node, len(g.nodes))
	for i := range g.nodes {
		n := &g.nodes[i]
		v := Node{
			ID:      i,
			Event:   n.event,
			Parent:  none,
			Column:  n.column,
			Start:   n.start,
			End:     n.end,
			Width:   n.width,
			XOffset: n.xOffset,
		}
		switch {
		case columnar:
			v.Kind = KindColumn
			v.Adjusted = n.adjusted
		case n.kind == kindContainer:
			v.Kind = KindContainer
			v.ContainerEnd = n.containerEnd
			v.Indent = n.containerXOffset
			if n.parentContainer != i {
				v.Parent = n.parentContainer
			}
		case n.kind == kindRow:
			v.Kind = KindRow
			v.Parent = n.container
		default:
			v.Kind = KindLeaf
			v.Parent = n.row
		}
		out[i] = v
	}
	return out
}
