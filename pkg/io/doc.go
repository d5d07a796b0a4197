// Package io moves pipeline graphs in and out of the process.
//
// # JSON Format
//
// The JSON form is the canonical preview and interchange shape:
//
//	{
//	  "nodes": [
//	    {"id": "n1", "label": "Extract", "position": {"x": 0, "y": 0}},
//	    {"id": "n2", "label": "Transform", "position": {"x": 220, "y": 0}}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "n1", "target": "n2"}
//	  ]
//	}
//
// Nodes and edges appear in insertion order and the output is indented with
// two spaces, so the same graph always serializes to the same bytes.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Import rejects malformed JSON, empty labels, duplicate
// ids and edges that reference unknown nodes. It does not validate the DAG
// rules; cycles and self-loops load fine and show up in the validation
// report.
//
// # Graphviz
//
// [ToDOT] produces a left-to-right DOT document and [RenderSVG] renders DOT
// to SVG with the embedded Graphviz build from go-graphviz. Neither uses the
// stored node positions; Graphviz lays the drawing out itself.
//
// # Concurrency
//
// All functions are safe for concurrent use: graphs are immutable values.
package io
