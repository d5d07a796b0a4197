package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Position dag.Position `json:"position"`
}

type edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func toWire(g *dag.Graph) graph {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: n.ID, Label: n.Label, Position: n.Position})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return out
}

// WriteJSON encodes g in the preview shape and writes it to w.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the preview encoding of g.
func MarshalJSON(g *dag.Graph) ([]byte, error) {
	return json.MarshalIndent(toWire(g), "", "  ")
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
