package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Build] and [Graph.WithNode] when the
	// node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] and [Graph.WithNode] when a
	// node with the same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Build] and [Graph.WithEdge] when the
	// edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Build] and [Graph.WithEdge] when an
	// edge with the same ID already exists in the graph.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned when an edge's Source does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when an edge's Target does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Position is the top-left corner of a node box on the editing canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a pipeline stage. ID is stable for the node's lifetime; Label is
// the user-visible name.
type Node struct {
	ID       string
	Label    string
	Position Position
}

// Edge is a directed data-flow connection from Source to Target.
// Parallel edges between the same pair are independent entities.
type Edge struct {
	ID     string
	Source string
	Target string
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }

// Graph is an immutable pipeline graph. Nodes and edges keep insertion
// order, which drives every deterministic enumeration in this module.
//
// Mutating methods return a new *Graph and never touch the receiver, so a
// snapshot handed to a reader stays consistent while the owner moves on.
// The zero value is not usable; use [New] or [Build].
type Graph struct {
	nodes    []Node
	edges    []Edge
	nodeIdx  map[string]int
	edgeIdx  map[string]int
	outgoing map[string][]string // nodeID -> target IDs, edge order
	incoming map[string][]string // nodeID -> source IDs, edge order
}

// New returns an empty graph.
func New() *Graph {
	g, _ := Build(nil, nil)
	return g
}

// Build constructs a graph from explicit node and edge sets.
// It returns ErrInvalidNodeID, ErrDuplicateNodeID, ErrInvalidEdgeID,
// ErrDuplicateEdgeID, ErrUnknownSourceNode or ErrUnknownTargetNode when the
// input breaks identity or referential integrity.
//
// Self-loops are accepted here: rejecting them is the mutation policy's job,
// and the validator reports any that arrive through import.
func Build(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
	}
	if err := g.reindex(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) reindex() error {
	g.nodeIdx = make(map[string]int, len(g.nodes))
	g.edgeIdx = make(map[string]int, len(g.edges))
	g.outgoing = make(map[string][]string, len(g.nodes))
	g.incoming = make(map[string][]string, len(g.nodes))

	for i, n := range g.nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if _, exists := g.nodeIdx[n.ID]; exists {
			return ErrDuplicateNodeID
		}
		g.nodeIdx[n.ID] = i
	}
	for i, e := range g.edges {
		if e.ID == "" {
			return ErrInvalidEdgeID
		}
		if _, exists := g.edgeIdx[e.ID]; exists {
			return ErrDuplicateEdgeID
		}
		if _, ok := g.nodeIdx[e.Source]; !ok {
			return ErrUnknownSourceNode
		}
		if _, ok := g.nodeIdx[e.Target]; !ok {
			return ErrUnknownTargetNode
		}
		g.edgeIdx[e.ID] = i
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
		g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	}
	return nil
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID and true, or the zero Node and
// false if not found.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns the edge with the given ID and true, or the zero Edge and
// false if not found.
func (g *Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIdx[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIdx[id]
	return ok
}

// Children returns the targets of the node's outgoing edges in edge order.
// A target appears once per parallel edge. The slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges in edge order.
// The slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// Degree returns the number of edges incident to the node, counting a
// self-loop twice.
func (g *Graph) Degree(id string) int { return len(g.outgoing[id]) + len(g.incoming[id]) }

// AllEdgesReferenceExistingNodes reports whether every edge endpoint names
// a node in the graph. Graphs built through this package always satisfy it;
// the check exists for callers that assemble graphs by other means.
func (g *Graph) AllEdgesReferenceExistingNodes() bool {
	for _, e := range g.edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			return false
		}
	}
	return true
}

// WithNode returns a new graph with n appended.
func (g *Graph) WithNode(n Node) (*Graph, error) {
	return Build(append(g.Nodes(), n), g.edges)
}

// WithEdge returns a new graph with e appended.
func (g *Graph) WithEdge(e Edge) (*Graph, error) {
	return Build(g.nodes, append(g.Edges(), e))
}

// Without returns a new graph with the listed nodes and edges removed.
// Every edge incident to a removed node is removed as well, so the result
// never holds a dangling edge. Unknown IDs are ignored.
func (g *Graph) Without(nodeIDs, edgeIDs []string) *Graph {
	dropNode := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		dropNode[id] = true
	}
	dropEdge := make(map[string]bool, len(edgeIDs))
	for _, id := range edgeIDs {
		dropEdge[id] = true
	}

	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if !dropNode[n.ID] {
			nodes = append(nodes, n)
		}
	}
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if dropEdge[e.ID] || dropNode[e.Source] || dropNode[e.Target] {
			continue
		}
		edges = append(edges, e)
	}

	out, err := Build(nodes, edges)
	if err != nil {
		// Removing elements cannot break identity or referential integrity.
		panic(err)
	}
	return out
}

// WithPositions returns a new graph where each node listed in pos has its
// position replaced. Nodes missing from pos keep their current position.
func (g *Graph) WithPositions(pos map[string]Position) *Graph {
	nodes := g.Nodes()
	for i := range nodes {
		if p, ok := pos[nodes[i].ID]; ok {
			nodes[i].Position = p
		}
	}
	return &Graph{
		nodes:    nodes,
		edges:    g.edges,
		nodeIdx:  g.nodeIdx,
		edgeIdx:  g.edgeIdx,
		outgoing: g.outgoing,
		incoming: g.incoming,
	}
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// PosMap creates a position lookup map from a slice of IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
