// Package layout assigns canvas coordinates to pipeline stages.
//
// # Overview
//
// [Compute] draws a pipeline left to right in layers. It never looks at the
// positions already stored in the graph, so running it twice on the same
// topology gives the same answer. [Apply] writes the result back into a new
// graph value.
//
// # Phases
//
// The work happens on a [dag.Layered] copy of the graph:
//
//  1. Ranks: self-loops are dropped, cycles are broken by removing DFS
//     back-edges, and each node is ranked by its longest path from a source
//     (see the transform package).
//  2. Ordering: long edges are split by virtual nodes so every edge spans one
//     rank. An [Orderer] then fixes the top-to-bottom order inside each rank.
//     The default [Barycentric] orderer seeds ranks in DFS order and sweeps
//     alternately down and up, keeping the order with the fewest crossings.
//  3. Coordinates: rank r sits at x = r × (NodeWidth + RankSep). The real
//     nodes of a rank are stacked with NodeSep between boxes and the stack is
//     centered against the tallest rank. Virtual nodes take part in ordering
//     only and receive no position.
//
// Positions are box top-left corners, matching [dag.Position].
//
// # Failure Modes
//
// There are none. Cyclic input, self-loops, isolated nodes and the empty
// graph all produce a layout; the empty graph produces an empty map.
//
// [dag.Layered]: github.com/matzehuels/stagegraph/pkg/dag.Layered
// [dag.Position]: github.com/matzehuels/stagegraph/pkg/dag.Position
package layout
