// Package dag provides the pipeline graph model used by stagegraph.
//
// # Overview
//
// A pipeline is a directed graph whose nodes are stages and whose edges carry
// data from one stage to the next. The [Graph] type holds the ordered node and
// edge sets and enforces identity and referential integrity: node and edge IDs
// are unique, and every edge endpoint names an existing node.
//
// # Copy-on-Write
//
// [Graph] values are immutable. [Graph.WithNode], [Graph.WithEdge],
// [Graph.Without] and [Graph.WithPositions] return a new graph and leave the
// receiver untouched:
//
//	g := dag.New()
//	g, _ = g.WithNode(dag.Node{ID: "n1", Label: "Extract"})
//	g, _ = g.WithNode(dag.Node{ID: "n2", Label: "Transform"})
//	g, _ = g.WithEdge(dag.Edge{ID: "e1", Source: "n1", Target: "n2"})
//
// A reader holding an older snapshot keeps seeing a consistent graph.
//
// Acyclicity is not enforced here. Users may create cycles while editing; the
// validate subpackage reports them.
//
// # Layered Work Graphs
//
// The layout engine needs a mutable, rank-annotated copy of the graph into
// which it can insert virtual nodes. [Layered] provides that structure, and
// [CountCrossings] and [CountLayerCrossings] count edge crossings between
// adjacent ranks with a Fenwick tree in O(E log V).
//
// # Related Packages
//
// The [transform] subpackage prepares a [Layered] graph for drawing (cycle
// breaking, rank assignment, edge subdivision). The [validate] subpackage
// computes validation reports.
//
// [transform]: github.com/matzehuels/stagegraph/pkg/dag/transform
// [validate]: github.com/matzehuels/stagegraph/pkg/dag/validate
package dag
