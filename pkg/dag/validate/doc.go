// Package validate checks a pipeline graph against the rules that make it a
// usable DAG.
//
// [Validate] is a pure function from a [dag.Graph] to a [Report]. It never
// returns an error: an invalid graph is a normal editing state, and the
// report describes what is wrong with it. The report is recomputed in full
// after every mutation; nothing is cached between calls.
//
// # Rules
//
// Errors are reported in a fixed order:
//
//  1. Fewer than two nodes.
//  2. Nodes with no incident edge, listed by label in node order.
//  3. A directed cycle anywhere in the graph.
//  4. Self-loops, counted.
//
// Warnings do not affect [Report.IsValid]: a graph larger than
// [Options.MaxRecommendedNodes] and a graph with nodes but no edges.
//
// # Cycle Detection
//
// [HasCycle] is an iterative depth-first search with an explicit frame
// stack, so very deep pipelines cannot exhaust the goroutine stack. It runs
// in O(V + E) and stops at the first back-edge.
//
// [dag.Graph]: github.com/matzehuels/stagegraph/pkg/dag.Graph
package validate
