// Package transform prepares a layered work graph for drawing.
//
// # Overview
//
// Pipeline graphs arrive in whatever shape the user built: they may contain
// cycles while being edited, and edges may skip several ranks. Layered graph
// drawing needs an acyclic graph whose edges only connect consecutive ranks.
// [Prepare] applies the full sequence:
//
//  1. [BreakCycles] removes DFS back-edges so the remainder is acyclic.
//  2. [AssignRanks] places each node at the length of the longest path from
//     a source (Kahn's algorithm).
//  3. [Subdivide] replaces every edge spanning more than one rank with a
//     chain of virtual nodes.
//
// All transforms operate in place on a [dag.Layered] copy; the pipeline
// graph itself is never touched.
//
// # Determinism
//
// Every traversal visits nodes in insertion order, so the same graph always
// yields the same ranks and the same virtual nodes.
//
// [dag.Layered]: github.com/matzehuels/stagegraph/pkg/dag.Layered
package transform
