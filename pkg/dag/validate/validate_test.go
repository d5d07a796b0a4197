package validate

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

func build(t *testing.T, labels []string, edges [][2]int) *dag.Graph {
	t.Helper()
	nodes := make([]dag.Node, len(labels))
	for i, l := range labels {
		nodes[i] = dag.Node{ID: fmt.Sprintf("n%d", i+1), Label: l}
	}
	es := make([]dag.Edge, len(edges))
	for i, e := range edges {
		es[i] = dag.Edge{
			ID:     fmt.Sprintf("e%d", i+1),
			Source: nodes[e[0]].ID,
			Target: nodes[e[1]].ID,
		}
	}
	g, err := dag.Build(nodes, es)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		edges    [][2]int
		valid    bool
		errors   []string
		warnings []string
	}{
		{
			name:     "empty",
			valid:    false,
			errors:   []string{"DAG must have at least 2 nodes"},
			warnings: []string{},
		},
		{
			name:     "single node",
			labels:   []string{"Extract"},
			errors:   []string{"DAG must have at least 2 nodes"},
			warnings: []string{"No connections between nodes"},
		},
		{
			name:     "two isolated nodes",
			labels:   []string{"Extract", "Transform"},
			errors:   []string{"2 node(s) are not connected: Extract, Transform"},
			warnings: []string{"No connections between nodes"},
		},
		{
			name:     "connected pair",
			labels:   []string{"Extract", "Transform"},
			edges:    [][2]int{{0, 1}},
			valid:    true,
			errors:   []string{},
			warnings: []string{},
		},
		{
			name:     "one straggler",
			labels:   []string{"Extract", "Transform", "Load"},
			edges:    [][2]int{{0, 1}},
			errors:   []string{"1 node(s) are not connected: Load"},
			warnings: []string{},
		},
		{
			name:     "triangle cycle",
			labels:   []string{"A", "B", "C"},
			edges:    [][2]int{{0, 1}, {1, 2}, {2, 0}},
			errors:   []string{"DAG contains cycles - cycles are not allowed"},
			warnings: []string{},
		},
		{
			name:   "self-loop",
			labels: []string{"A", "B"},
			edges:  [][2]int{{0, 1}, {1, 1}},
			errors: []string{
				"DAG contains cycles - cycles are not allowed",
				"1 self-loop(s) detected",
			},
			warnings: []string{},
		},
		{
			name:     "diamond with parallel edge",
			labels:   []string{"A", "B", "C", "D"},
			edges:    [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {0, 1}},
			valid:    true,
			errors:   []string{},
			warnings: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(build(t, tt.labels, tt.edges))
			if r.IsValid != tt.valid {
				t.Errorf("IsValid = %v, want %v", r.IsValid, tt.valid)
			}
			if !slices.Equal(r.Errors, tt.errors) {
				t.Errorf("Errors = %q, want %q", r.Errors, tt.errors)
			}
			if !slices.Equal(r.Warnings, tt.warnings) {
				t.Errorf("Warnings = %q, want %q", r.Warnings, tt.warnings)
			}
		})
	}
}

func TestValidateLargeGraph(t *testing.T) {
	labels := make([]string, 11)
	var edges [][2]int
	for i := range labels {
		labels[i] = fmt.Sprintf("S%d", i)
		if i > 0 {
			edges = append(edges, [2]int{i - 1, i})
		}
	}
	g := build(t, labels, edges)

	r := Validate(g)
	if !r.IsValid {
		t.Fatalf("chain of 11 should be valid, got %q", r.Errors)
	}
	if !slices.Equal(r.Warnings, []string{"Large number of nodes may impact performance"}) {
		t.Errorf("Warnings = %q", r.Warnings)
	}

	r = ValidateWithOptions(g, Options{MaxRecommendedNodes: 20})
	if len(r.Warnings) != 0 {
		t.Errorf("raised threshold should silence warning, got %q", r.Warnings)
	}
}

func TestCycleRemovalRestoresValidity(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	if Validate(g).IsValid {
		t.Fatal("cyclic graph reported valid")
	}

	g = g.Without(nil, []string{"e3"})
	r := Validate(g)
	if !r.IsValid {
		t.Errorf("after removing C→A: %q", r.Errors)
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  bool
	}{
		{"empty", 0, nil, false},
		{"chain", 3, [][2]int{{0, 1}, {1, 2}}, false},
		{"back edge", 3, [][2]int{{0, 1}, {1, 2}, {2, 1}}, true},
		{"cycle in second component", 4, [][2]int{{0, 1}, {2, 3}, {3, 2}}, true},
		{"cross edge is not a cycle", 3, [][2]int{{0, 1}, {0, 2}, {2, 1}}, false},
		{"self-loop", 1, [][2]int{{0, 0}}, true},
		{"parallel edges", 2, [][2]int{{0, 1}, {0, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := make([]string, tt.n)
			for i := range labels {
				labels[i] = fmt.Sprintf("L%d", i)
			}
			if got := HasCycle(build(t, labels, tt.edges)); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCycleDeepChain(t *testing.T) {
	const depth = 100000
	labels := make([]string, depth)
	edges := make([][2]int, 0, depth)
	for i := range labels {
		labels[i] = "s"
		if i > 0 {
			edges = append(edges, [2]int{i - 1, i})
		}
	}
	g := build(t, labels, edges)
	if HasCycle(g) {
		t.Fatal("chain reported cyclic")
	}
	g, err := g.WithEdge(dag.Edge{ID: "back", Source: "n100000", Target: "n1"})
	if err != nil {
		t.Fatal(err)
	}
	if !HasCycle(g) {
		t.Fatal("closing edge not detected")
	}
}
