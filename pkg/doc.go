// Package pkg holds the libraries behind Stagegraph, an editor for data
// pipelines drawn as directed acyclic graphs of stages.
//
// # Overview
//
// A pipeline is a set of labeled stages joined by directed edges. The
// libraries are layered so that each can be used without the ones above it:
//
//  1. [dag] - the immutable pipeline graph and the layered work graph
//  2. [dag/validate] - structural checks producing a report of errors and
//     warnings
//  3. [dag/transform] - cycle breaking, ranking and long-edge subdivision
//  4. [layout] - left-to-right layered positions with crossing reduction
//  5. [mutation] - add, connect and delete commands with their rejections
//  6. [editor] - a controller that applies commands, re-validates and
//     publishes snapshots
//  7. [io] - JSON import and export, Graphviz DOT and SVG
//
// Supporting packages: [cache] (layout cache backends), [config] (TOML
// settings), [errors] (code-tagged user-facing errors), [observability]
// (hooks for logging and metrics) and [buildinfo].
//
// # Data Flow
//
//	edit command (terminal editor or HTTP)
//	         ↓
//	    [mutation] policy → new graph or rejection
//	         ↓
//	    [dag/validate] → report
//	         ↓
//	    [editor] snapshot → subscribers
//
// Layout only runs on request and overwrites positions:
//
//	[dag] graph → [dag/transform] prepare → [layout] order + coordinates
//
// # Quick Start
//
//	g, _ := dag.Build(
//	    []dag.Node{{ID: "n1", Label: "Extract"}, {ID: "n2", Label: "Load"}},
//	    []dag.Edge{{ID: "e1", Source: "n1", Target: "n2"}},
//	)
//	report := validate.Validate(g)       // report.IsValid == true
//	pos := layout.Compute(g, layout.DefaultOptions())
//	g = layout.Apply(g, pos)             // n1 at (0,0), n2 at (220,0)
//
// [dag]: github.com/matzehuels/stagegraph/pkg/dag
// [dag/validate]: github.com/matzehuels/stagegraph/pkg/dag/validate
// [dag/transform]: github.com/matzehuels/stagegraph/pkg/dag/transform
// [layout]: github.com/matzehuels/stagegraph/pkg/layout
// [mutation]: github.com/matzehuels/stagegraph/pkg/mutation
// [editor]: github.com/matzehuels/stagegraph/pkg/editor
// [io]: github.com/matzehuels/stagegraph/pkg/io
// [cache]: github.com/matzehuels/stagegraph/pkg/cache
// [config]: github.com/matzehuels/stagegraph/pkg/config
// [errors]: github.com/matzehuels/stagegraph/pkg/errors
// [observability]: github.com/matzehuels/stagegraph/pkg/observability
// [buildinfo]: github.com/matzehuels/stagegraph/pkg/buildinfo
package pkg
