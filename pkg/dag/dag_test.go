package dag

import (
	"errors"
	"testing"
)

func pipeline(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(
		[]Node{
			{ID: "n1", Label: "Extract"},
			{ID: "n2", Label: "Transform"},
			{ID: "n3", Label: "Load"},
		},
		[]Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n2", Target: "n3"},
		},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		edges   []Edge
		wantErr error
	}{
		{name: "Empty"},
		{
			name:  "Valid",
			nodes: []Node{{ID: "a"}, {ID: "b"}},
			edges: []Edge{{ID: "e", Source: "a", Target: "b"}},
		},
		{
			name:  "SelfLoopAccepted",
			nodes: []Node{{ID: "a"}},
			edges: []Edge{{ID: "e", Source: "a", Target: "a"}},
		},
		{
			name:  "ParallelEdges",
			nodes: []Node{{ID: "a"}, {ID: "b"}},
			edges: []Edge{{ID: "e1", Source: "a", Target: "b"}, {ID: "e2", Source: "a", Target: "b"}},
		},
		{name: "EmptyNodeID", nodes: []Node{{ID: ""}}, wantErr: ErrInvalidNodeID},
		{name: "DuplicateNodeID", nodes: []Node{{ID: "a"}, {ID: "a"}}, wantErr: ErrDuplicateNodeID},
		{
			name:    "EmptyEdgeID",
			nodes:   []Node{{ID: "a"}, {ID: "b"}},
			edges:   []Edge{{Source: "a", Target: "b"}},
			wantErr: ErrInvalidEdgeID,
		},
		{
			name:    "DuplicateEdgeID",
			nodes:   []Node{{ID: "a"}, {ID: "b"}},
			edges:   []Edge{{ID: "e", Source: "a", Target: "b"}, {ID: "e", Source: "b", Target: "a"}},
			wantErr: ErrDuplicateEdgeID,
		},
		{
			name:    "UnknownSource",
			nodes:   []Node{{ID: "b"}},
			edges:   []Edge{{ID: "e", Source: "a", Target: "b"}},
			wantErr: ErrUnknownSourceNode,
		},
		{
			name:    "UnknownTarget",
			nodes:   []Node{{ID: "a"}},
			edges:   []Edge{{ID: "e", Source: "a", Target: "b"}},
			wantErr: ErrUnknownTargetNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.nodes, tt.edges)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !g.AllEdgesReferenceExistingNodes() {
				t.Error("AllEdgesReferenceExistingNodes() = false, want true")
			}
		})
	}
}

func TestGraphQueries(t *testing.T) {
	g := pipeline(t)

	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", g.NodeCount(), g.EdgeCount())
	}
	if n, ok := g.Node("n2"); !ok || n.Label != "Transform" {
		t.Errorf("Node(n2) = %+v, %v", n, ok)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
	if e, ok := g.Edge("e2"); !ok || e.Source != "n2" || e.Target != "n3" {
		t.Errorf("Edge(e2) = %+v, %v", e, ok)
	}
	if got := g.Children("n1"); len(got) != 1 || got[0] != "n2" {
		t.Errorf("Children(n1) = %v, want [n2]", got)
	}
	if got := g.Parents("n3"); len(got) != 1 || got[0] != "n2" {
		t.Errorf("Parents(n3) = %v, want [n2]", got)
	}
	if g.Degree("n2") != 2 {
		t.Errorf("Degree(n2) = %d, want 2", g.Degree("n2"))
	}
	if got := NodeIDs(g.Nodes()); got[0] != "n1" || got[1] != "n2" || got[2] != "n3" {
		t.Errorf("node order = %v, want insertion order", got)
	}
}

func TestGraphCopyOnWrite(t *testing.T) {
	g := pipeline(t)

	g2, err := g.WithNode(Node{ID: "n4", Label: "Report"})
	if err != nil {
		t.Fatalf("WithNode() error = %v", err)
	}
	g3, err := g2.WithEdge(Edge{ID: "e3", Source: "n3", Target: "n4"})
	if err != nil {
		t.Fatalf("WithEdge() error = %v", err)
	}

	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("original snapshot changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if g2.EdgeCount() != 2 {
		t.Errorf("intermediate snapshot changed: %d edges", g2.EdgeCount())
	}
	if g3.NodeCount() != 4 || g3.EdgeCount() != 3 {
		t.Errorf("new snapshot = %d nodes, %d edges, want 4/3", g3.NodeCount(), g3.EdgeCount())
	}

	nodes := g.Nodes()
	nodes[0].Label = "mutated"
	if n, _ := g.Node("n1"); n.Label != "Extract" {
		t.Error("Nodes() must return a copy")
	}
}

func TestWithNodeRejectsDuplicates(t *testing.T) {
	g := pipeline(t)
	if _, err := g.WithNode(Node{ID: "n1"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("WithNode(dup) error = %v, want ErrDuplicateNodeID", err)
	}
	if _, err := g.WithEdge(Edge{ID: "e9", Source: "n1", Target: "zz"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("WithEdge(dangling) error = %v, want ErrUnknownTargetNode", err)
	}
}

func TestWithoutCascades(t *testing.T) {
	g := pipeline(t)

	got := g.Without([]string{"n2"}, nil)

	if got.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", got.NodeCount())
	}
	if got.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 (both edges touch n2)", got.EdgeCount())
	}
	if !got.AllEdgesReferenceExistingNodes() {
		t.Error("dangling edge after cascade delete")
	}
	if g.EdgeCount() != 2 {
		t.Error("Without must not modify the receiver")
	}
}

func TestWithoutEdgesOnly(t *testing.T) {
	g := pipeline(t)

	got := g.Without(nil, []string{"e1", "unknown"})

	if got.NodeCount() != 3 || got.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges, want 3/1", got.NodeCount(), got.EdgeCount())
	}
	if _, ok := got.Edge("e2"); !ok {
		t.Error("e2 should survive")
	}
}

func TestWithPositions(t *testing.T) {
	g := pipeline(t)

	got := g.WithPositions(map[string]Position{"n1": {X: 10, Y: 20}})

	if n, _ := got.Node("n1"); n.Position != (Position{X: 10, Y: 20}) {
		t.Errorf("n1 position = %+v", n.Position)
	}
	if n, _ := g.Node("n1"); n.Position != (Position{}) {
		t.Error("WithPositions must not modify the receiver")
	}
	if got.EdgeCount() != g.EdgeCount() {
		t.Error("WithPositions must keep edges")
	}
}
