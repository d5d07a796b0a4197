package dag

import (
	"maps"
	"slices"
)

// NodeKind distinguishes real pipeline stages from synthetic nodes created
// while preparing a layered layout.
type NodeKind int

const (
	// NodeKindRegular is a node copied from the pipeline graph.
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual is a placeholder inserted to split an edge that spans
	// more than one rank.
	NodeKindVirtual
)

// LayerNode is a vertex of a [Layered] work graph.
type LayerNode struct {
	ID   string
	Rank int
	Kind NodeKind
}

// IsVirtual reports whether the node was synthesized during layout.
func (n LayerNode) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// LayerEdge is a directed connection in a [Layered] work graph.
type LayerEdge struct {
	From string
	To   string
}

// Layered is a mutable, rank-indexed copy of a pipeline graph used by the
// layout engine. Unlike [Graph] it is modified in place by the transforms
// in the transform subpackage (cycle breaking, rank assignment, edge
// subdivision).
//
// Enumeration methods return nodes in insertion order so that every layout
// step is deterministic. Layered is not safe for concurrent use.
type Layered struct {
	nodes    map[string]*LayerNode
	order    []string
	edges    []LayerEdge
	outgoing map[string][]string
	incoming map[string][]string
	ranks    map[int][]*LayerNode
}

// NewLayered returns an empty work graph.
func NewLayered() *Layered {
	return &Layered{
		nodes:    make(map[string]*LayerNode),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		ranks:    make(map[int][]*LayerNode),
	}
}

// LayeredFrom copies g into a new work graph with every node at rank 0.
// Self-loops are dropped because they carry no ordering information.
func LayeredFrom(g *Graph) *Layered {
	l := NewLayered()
	for _, n := range g.nodes {
		_ = l.AddNode(LayerNode{ID: n.ID})
	}
	for _, e := range g.edges {
		if e.IsSelfLoop() {
			continue
		}
		_ = l.AddEdge(LayerEdge{From: e.Source, To: e.Target})
	}
	return l
}

// AddNode adds a node and indexes it by its Rank.
// Returns ErrInvalidNodeID or ErrDuplicateNodeID.
func (l *Layered) AddNode(n LayerNode) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := l.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	l.nodes[n.ID] = node
	l.order = append(l.order, n.ID)
	l.ranks[n.Rank] = append(l.ranks[n.Rank], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Multiple edges between the same nodes are kept.
func (l *Layered) AddEdge(e LayerEdge) error {
	if _, ok := l.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := l.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	l.edges = append(l.edges, e)
	l.outgoing[e.From] = append(l.outgoing[e.From], e.To)
	l.incoming[e.To] = append(l.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes every edge from→to. It is a no-op if none exists.
func (l *Layered) RemoveEdge(from, to string) {
	l.edges = slices.DeleteFunc(l.edges, func(e LayerEdge) bool { return e.From == from && e.To == to })
	l.outgoing[from] = slices.DeleteFunc(l.outgoing[from], func(s string) bool { return s == to })
	l.incoming[to] = slices.DeleteFunc(l.incoming[to], func(s string) bool { return s == from })
}

// SetRanks updates rank assignments and rebuilds the rank index.
// Nodes missing from ranks keep their current rank.
func (l *Layered) SetRanks(ranks map[string]int) {
	l.ranks = make(map[int][]*LayerNode)
	for _, id := range l.order {
		n := l.nodes[id]
		if r, ok := ranks[id]; ok {
			n.Rank = r
		}
		l.ranks[n.Rank] = append(l.ranks[n.Rank], n)
	}
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (l *Layered) Nodes() []*LayerNode {
	out := make([]*LayerNode, len(l.order))
	for i, id := range l.order {
		out[i] = l.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (l *Layered) Edges() []LayerEdge { return slices.Clone(l.edges) }

// Node returns the node with the given ID.
func (l *Layered) Node(id string) (*LayerNode, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes, virtual ones included.
func (l *Layered) NodeCount() int { return len(l.nodes) }

// EdgeCount returns the number of edges.
func (l *Layered) EdgeCount() int { return len(l.edges) }

// Children returns the node's edge targets. The slice must not be modified.
func (l *Layered) Children(id string) []string { return l.outgoing[id] }

// Parents returns the node's edge sources. The slice must not be modified.
func (l *Layered) Parents(id string) []string { return l.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (l *Layered) InDegree(id string) int { return len(l.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (l *Layered) OutDegree(id string) int { return len(l.outgoing[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (l *Layered) Sources() []*LayerNode {
	var sources []*LayerNode
	for _, id := range l.order {
		if len(l.incoming[id]) == 0 {
			sources = append(sources, l.nodes[id])
		}
	}
	return sources
}

// NodesInRank returns the nodes assigned to rank in insertion order.
func (l *Layered) NodesInRank(rank int) []*LayerNode { return l.ranks[rank] }

// RankIDs returns all rank indices in ascending order.
func (l *Layered) RankIDs() []int { return slices.Sorted(maps.Keys(l.ranks)) }

// MaxRank returns the highest rank index, or 0 if the graph is empty.
func (l *Layered) MaxRank() int {
	ids := l.RankIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}
