package transform

import "github.com/matzehuels/stagegraph/pkg/dag"

// AssignRanks assigns every node a rank (layer index) equal to the length of
// the longest path reaching it from a source, so that for every edge the
// target's rank is at least the source's rank plus one.
//
// AssignRanks runs Kahn's algorithm with the queue seeded by source nodes in
// insertion order. Existing ranks are overwritten.
//
// # Cycles
//
// Nodes on a cycle never reach in-degree zero and keep rank 0. Run
// [BreakCycles] first; [Prepare] does this.
//
// # Performance
//
// O(V + E) time, O(V) space.
func AssignRanks(g *dag.Layered) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	ranks := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		ranks[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if rank := ranks[curr] + 1; rank > ranks[child] {
				ranks[child] = rank
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRanks(ranks)
}
