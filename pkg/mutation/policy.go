package mutation

import (
	"math/rand/v2"

	"github.com/matzehuels/stagegraph/pkg/dag"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
	"github.com/matzehuels/stagegraph/pkg/layout"
)

// Initial node placement: a random point in [placeMin, placeMin+placeSpan)
// on both axes, retried up to placeAttempts times to avoid overlapping an
// existing box.
const (
	placeMin      = 100.0
	placeSpan     = 400.0
	placeAttempts = 32
)

// Policy applies editing commands to a graph. The zero value is not usable;
// call New.
//
// A Policy is not safe for concurrent use because of its random source.
// The editor controller serializes access.
type Policy struct {
	ids        IDGenerator
	rng        *rand.Rand
	nodeWidth  float64
	nodeHeight float64
}

// Option configures a Policy.
type Option func(*Policy)

// WithIDGenerator replaces the default UUID-based generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Policy) { p.ids = g }
}

// WithRand replaces the random source used for initial placement.
func WithRand(r *rand.Rand) Option {
	return func(p *Policy) { p.rng = r }
}

// WithNodeSize sets the box size used for the overlap check.
func WithNodeSize(width, height float64) Option {
	return func(p *Policy) {
		if width > 0 {
			p.nodeWidth = width
		}
		if height > 0 {
			p.nodeHeight = height
		}
	}
}

// New returns a Policy with UUID identifiers and a randomly seeded source.
func New(opts ...Option) *Policy {
	p := &Policy{
		ids:        UUIDGenerator{},
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		nodeWidth:  layout.DefaultNodeWidth,
		nodeHeight: layout.DefaultNodeHeight,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddNode adds a stage called label. The label is trimmed; an empty result
// is rejected with INVALID_LABEL.
func (p *Policy) AddNode(g *dag.Graph, label string) (*dag.Graph, dag.Node, error) {
	label, err := errs.ValidateLabel(label)
	if err != nil {
		return g, dag.Node{}, err
	}

	n := dag.Node{
		ID:       p.ids.NewID(NodePrefix),
		Label:    label,
		Position: p.place(g),
	}
	next, err := g.WithNode(n)
	if err != nil {
		return g, dag.Node{}, errs.Wrap(errs.ErrCodeInternal, err, "add node %s", n.ID)
	}
	return next, n, nil
}

// Connect adds an edge from source to target. Cycles and parallel edges
// are accepted.
func (p *Policy) Connect(g *dag.Graph, source, target string) (*dag.Graph, dag.Edge, error) {
	if source == target {
		return g, dag.Edge{}, errs.New(errs.ErrCodeSelfConnection, "cannot connect node %s to itself", source)
	}
	for _, id := range []string{source, target} {
		if !g.HasNode(id) {
			return g, dag.Edge{}, errs.New(errs.ErrCodeUnknownNode, "node %q does not exist", id)
		}
	}

	e := dag.Edge{
		ID:     p.ids.NewID(EdgePrefix),
		Source: source,
		Target: target,
	}
	next, err := g.WithEdge(e)
	if err != nil {
		return g, dag.Edge{}, errs.Wrap(errs.ErrCodeInternal, err, "connect %s to %s", source, target)
	}
	return next, e, nil
}

// DeleteSelection removes the selected nodes and edges.
func (p *Policy) DeleteSelection(g *dag.Graph, nodeIDs, edgeIDs []string) *dag.Graph {
	return DeleteSelection(g, nodeIDs, edgeIDs)
}

// DeleteSelection removes the given nodes and edges plus every edge touching
// a removed node. Unknown ids are ignored.
func DeleteSelection(g *dag.Graph, nodeIDs, edgeIDs []string) *dag.Graph {
	return g.Without(nodeIDs, edgeIDs)
}

// place picks a random top-left corner whose box does not overlap any
// existing node. If every attempt collides the node goes below the lowest
// box.
func (p *Policy) place(g *dag.Graph) dag.Position {
	nodes := g.Nodes()
	for range placeAttempts {
		pos := dag.Position{
			X: placeMin + p.rng.Float64()*placeSpan,
			Y: placeMin + p.rng.Float64()*placeSpan,
		}
		if !p.collides(pos, nodes) {
			return pos
		}
	}

	bottom := placeMin
	for _, n := range nodes {
		bottom = max(bottom, n.Position.Y+p.nodeHeight+layout.DefaultNodeSep)
	}
	return dag.Position{X: placeMin, Y: bottom}
}

func (p *Policy) collides(pos dag.Position, nodes []dag.Node) bool {
	for _, n := range nodes {
		o := n.Position
		if pos.X < o.X+p.nodeWidth && o.X < pos.X+p.nodeWidth &&
			pos.Y < o.Y+p.nodeHeight && o.Y < pos.Y+p.nodeHeight {
			return true
		}
	}
	return false
}
