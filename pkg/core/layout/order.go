package layout

import (
	"cmp"
	"slices"
)

// renderOrder returns the indices of the first n arena nodes sorted by start
// ascending, then end descending. The sort is stable so events with equal
// ranges keep their input order.
func renderOrder(g *graph, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		na, nb := &g.nodes[a], &g.nodes[b]
		if c := cmp.Compare(na.startMs, nb.startMs); c != 0 {
			return c
		}
		return cmp.Compare(nb.endMs, na.endMs)
	})
	return order
}
