package validate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

// DefaultMaxRecommendedNodes is the node count above which a graph gets a
// performance warning.
const DefaultMaxRecommendedNodes = 10

const (
	msgTooFewNodes   = "DAG must have at least 2 nodes"
	msgCycle         = "DAG contains cycles - cycles are not allowed"
	msgLargeGraph    = "Large number of nodes may impact performance"
	msgNoConnections = "No connections between nodes"
)

// Report is the result of validating a graph. Errors and Warnings are never
// nil so that the JSON form always carries arrays.
type Report struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Options tunes the warning thresholds.
type Options struct {
	// MaxRecommendedNodes triggers the large-graph warning when exceeded.
	// Zero or negative means DefaultMaxRecommendedNodes.
	MaxRecommendedNodes int
}

// Validate checks g with default options.
func Validate(g *dag.Graph) Report {
	return ValidateWithOptions(g, Options{})
}

// ValidateWithOptions checks g and returns a fresh report.
func ValidateWithOptions(g *dag.Graph, opts Options) Report {
	maxNodes := opts.MaxRecommendedNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxRecommendedNodes
	}

	r := Report{Errors: []string{}, Warnings: []string{}}
	nodes := g.Nodes()
	edges := g.Edges()

	if len(nodes) < 2 {
		r.Errors = append(r.Errors, msgTooFewNodes)
	}

	if len(nodes) >= 2 {
		if isolated := isolatedLabels(g, nodes); len(isolated) > 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("%d node(s) are not connected: %s",
				len(isolated), strings.Join(isolated, ", ")))
		}
	}

	if HasCycle(g) {
		r.Errors = append(r.Errors, msgCycle)
	}

	if loops := countSelfLoops(edges); loops > 0 {
		r.Errors = append(r.Errors, fmt.Sprintf("%d self-loop(s) detected", loops))
	}

	if len(nodes) > maxNodes {
		r.Warnings = append(r.Warnings, msgLargeGraph)
	}
	if len(edges) == 0 && len(nodes) > 0 {
		r.Warnings = append(r.Warnings, msgNoConnections)
	}

	r.IsValid = len(r.Errors) == 0
	return r
}

func isolatedLabels(g *dag.Graph, nodes []dag.Node) []string {
	var labels []string
	for _, n := range nodes {
		if g.Degree(n.ID) == 0 {
			labels = append(labels, n.Label)
		}
	}
	return labels
}

func countSelfLoops(edges []dag.Edge) int {
	count := 0
	for _, e := range edges {
		if e.IsSelfLoop() {
			count++
		}
	}
	return count
}

type frame struct {
	id   string
	next int
}

// HasCycle reports whether g contains a directed cycle. Self-loops count as
// cycles. DFS roots are taken in node order; the search stops at the first
// edge that reaches a node still on the stack.
func HasCycle(g *dag.Graph) bool {
	visited := make(map[string]bool, g.NodeCount())
	onStack := make(map[string]bool)
	var stack []frame

	for _, root := range g.Nodes() {
		if visited[root.ID] {
			continue
		}
		visited[root.ID] = true
		onStack[root.ID] = true
		stack = append(stack[:0], frame{id: root.ID})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				onStack[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++

			if onStack[child] {
				return true
			}
			if !visited[child] {
				visited[child] = true
				onStack[child] = true
				stack = append(stack, frame{id: child})
			}
		}
	}
	return false
}
