package transform

import "github.com/matzehuels/stagegraph/pkg/dag"

// Result reports what [Prepare] changed in a work graph.
type Result struct {
	// BackEdgesRemoved is the number of from→to pairs dropped to break
	// cycles. Zero means the input was already acyclic.
	BackEdgesRemoved int

	// VirtualNodesAdded is the number of virtual nodes inserted to split
	// long edges.
	VirtualNodesAdded int

	// MaxRank is the highest rank after assignment.
	MaxRank int
}

// Prepare turns an arbitrary work graph into a proper layered graph: it
// breaks cycles, assigns ranks, then subdivides long edges so every edge
// connects consecutive ranks. The order matters; ranks are only meaningful
// on an acyclic graph and subdivision needs ranks.
func Prepare(g *dag.Layered) Result {
	var r Result
	r.BackEdgesRemoved = BreakCycles(g)
	AssignRanks(g)
	r.VirtualNodesAdded = Subdivide(g)
	r.MaxRank = g.MaxRank()
	return r
}
