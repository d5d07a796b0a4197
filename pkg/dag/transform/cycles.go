package transform

import "github.com/matzehuels/stagegraph/pkg/dag"

// BreakCycles removes back-edges so that the work graph becomes acyclic and
// returns the number of distinct from→to pairs it removed.
//
// Back-edges are found by depth-first search with white/gray/black
// coloring. Roots are the source nodes in insertion order, followed by any
// node still unvisited (nodes that sit only on cycles). Which edge of a cycle
// is dropped therefore depends on processing order, which keeps the result
// deterministic for a given graph. Parallel copies of a back-edge are removed
// together.
func BreakCycles(g *dag.Layered) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	seen := make(map[dag.LayerEdge]bool)
	var backEdges []dag.LayerEdge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				e := dag.LayerEdge{From: node, To: child}
				if !seen[e] {
					seen[e] = true
					backEdges = append(backEdges, e)
				}
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return len(backEdges)
}
