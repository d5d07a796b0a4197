package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

// Orderer decides the top-to-bottom order of nodes within each rank of a
// prepared work graph, where every edge connects consecutive ranks.
type Orderer interface {
	OrderRanks(l *dag.Layered) map[int][]string
}

// Barycentric is the classic Sugiyama barycenter heuristic. Each sweep sorts
// a rank by the mean position of its neighbors in the rank just visited,
// alternating downward (parents) and upward (children). The ordering with
// the fewest crossings over all sweeps is returned; sweeping stops early
// once a crossing-free ordering is found.
type Barycentric struct {
	// Passes is the number of sweeps. Zero means DefaultIterations.
	Passes int
	// Transpose swaps adjacent nodes after each sweep while that reduces
	// crossings.
	Transpose bool
}

// OrderRanks implements Orderer.
func (b Barycentric) OrderRanks(l *dag.Layered) map[int][]string {
	orders := initOrder(l)
	if len(orders) == 0 {
		return orders
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultIterations
	}
	maxRank := l.MaxRank()

	best := cloneOrders(orders)
	bestCC := dag.CountCrossings(l, orders)

	for i := 0; i < passes && bestCC > 0; i++ {
		if i%2 == 0 {
			for r := 1; r <= maxRank; r++ {
				orders[r] = sortByBarycenter(l, orders[r], dag.PosMap(orders[r-1]), true)
			}
		} else {
			for r := maxRank - 1; r >= 0; r-- {
				orders[r] = sortByBarycenter(l, orders[r], dag.PosMap(orders[r+1]), false)
			}
		}
		if b.Transpose {
			transpose(l, orders, maxRank)
		}
		if cc := dag.CountCrossings(l, orders); cc < bestCC {
			best, bestCC = cloneOrders(orders), cc
		}
	}
	return best
}

// initOrder seeds each rank with the order in which a DFS from the
// lowest-ranked nodes first reaches its members.
func initOrder(l *dag.Layered) map[int][]string {
	var nodes []*dag.LayerNode
	for _, r := range l.RankIDs() {
		nodes = append(nodes, l.NodesInRank(r)...)
	}

	orders := make(map[int][]string)
	visited := make(map[string]bool, len(nodes))
	var stack []string
	for _, root := range nodes {
		if visited[root.ID] {
			continue
		}
		stack = append(stack[:0], root.ID)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			n, _ := l.Node(id)
			orders[n.Rank] = append(orders[n.Rank], id)

			children := l.Children(id)
			for i := len(children) - 1; i >= 0; i-- {
				if !visited[children[i]] {
					stack = append(stack, children[i])
				}
			}
		}
	}
	return orders
}

// sortByBarycenter orders ids by the mean adjPos of their neighbors. Nodes
// without a neighbor in the adjacent rank keep their current index as
// barycenter. Ties keep the current order.
func sortByBarycenter(l *dag.Layered, ids []string, adjPos map[string]int, useParents bool) []string {
	type entry struct {
		id string
		bc float64
	}
	entries := make([]entry, len(ids))
	for i, id := range ids {
		nbrs := l.Children(id)
		if useParents {
			nbrs = l.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		bc := float64(i)
		if n > 0 {
			bc = sum / float64(n)
		}
		entries[i] = entry{id, bc}
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.bc, b.bc) })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// transpose swaps adjacent pairs while that strictly lowers crossings.
// Every swap lowers the total, so the loop terminates.
func transpose(l *dag.Layered, orders map[int][]string, maxRank int) {
	for improved := true; improved; {
		improved = false
		for r := 0; r <= maxRank; r++ {
			ids := orders[r]
			var above, below map[string]int
			if r > 0 {
				above = dag.PosMap(orders[r-1])
			}
			if r < maxRank {
				below = dag.PosMap(orders[r+1])
			}
			for i := 0; i+1 < len(ids); i++ {
				u, v := ids[i], ids[i+1]
				if pairCrossings(l, v, u, above, below) < pairCrossings(l, u, v, above, below) {
					ids[i], ids[i+1] = v, u
					improved = true
				}
			}
		}
	}
}

func pairCrossings(l *dag.Layered, left, right string, above, below map[string]int) int {
	return dag.CountPairCrossingsWithPos(l, left, right, above, true) +
		dag.CountPairCrossingsWithPos(l, left, right, below, false)
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := maps.Clone(orders)
	for r, ids := range out {
		out[r] = slices.Clone(ids)
	}
	return out
}
