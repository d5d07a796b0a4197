package layout

import (
	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/dag/transform"
)

// Default spacing, in canvas units.
const (
	DefaultRankSep    = 100.0
	DefaultNodeSep    = 50.0
	DefaultNodeWidth  = 120.0
	DefaultNodeHeight = 50.0
	DefaultIterations = 8
)

// Options controls spacing and the ordering effort.
type Options struct {
	// RankSep is the horizontal gap between the boxes of consecutive ranks.
	RankSep float64
	// NodeSep is the vertical gap between boxes in the same rank.
	NodeSep float64
	// NodeWidth and NodeHeight are the box size used for spacing.
	NodeWidth  float64
	NodeHeight float64
	// Iterations is the number of barycenter sweeps.
	Iterations int
	// Orderer overrides the in-rank ordering. Nil means Barycentric with
	// Iterations passes and transposition enabled.
	Orderer Orderer
}

// DefaultOptions returns the standard spacing.
func DefaultOptions() Options {
	return Options{
		RankSep:    DefaultRankSep,
		NodeSep:    DefaultNodeSep,
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		Iterations: DefaultIterations,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RankSep < 0 {
		o.RankSep = d.RankSep
	}
	if o.NodeSep < 0 {
		o.NodeSep = d.NodeSep
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.Orderer == nil {
		o.Orderer = Barycentric{Passes: o.Iterations, Transpose: true}
	}
	return o
}

// Stats describes a computed layout.
type Stats struct {
	Ranks             int
	BackEdgesRemoved  int
	VirtualNodesAdded int
	Crossings         int
}

// Compute returns a position for every node of g.
func Compute(g *dag.Graph, opts Options) map[string]dag.Position {
	pos, _ := ComputeWithStats(g, opts)
	return pos
}

// ComputeWithStats is Compute that also reports what the layout did.
func ComputeWithStats(g *dag.Graph, opts Options) (map[string]dag.Position, Stats) {
	opts = opts.withDefaults()
	pos := make(map[string]dag.Position, g.NodeCount())
	if g.NodeCount() == 0 {
		return pos, Stats{}
	}

	work := dag.LayeredFrom(g)
	prep := transform.Prepare(work)
	orders := opts.Orderer.OrderRanks(work)

	assignCoordinates(work, orders, opts, pos)
	return pos, Stats{
		Ranks:             prep.MaxRank + 1,
		BackEdgesRemoved:  prep.BackEdgesRemoved,
		VirtualNodesAdded: prep.VirtualNodesAdded,
		Crossings:         dag.CountCrossings(work, orders),
	}
}

// Apply returns a copy of g with every node moved to pos. Nodes missing
// from pos keep their position; ids, labels and edges are untouched.
func Apply(g *dag.Graph, pos map[string]dag.Position) *dag.Graph {
	return g.WithPositions(pos)
}

// Ranks returns the rank Compute would give each node of g.
func Ranks(g *dag.Graph) map[string]int {
	work := dag.LayeredFrom(g)
	transform.Prepare(work)

	ranks := make(map[string]int, g.NodeCount())
	for _, n := range work.Nodes() {
		if !n.IsVirtual() {
			ranks[n.ID] = n.Rank
		}
	}
	return ranks
}
