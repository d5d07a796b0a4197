package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/stagegraph/pkg/dag"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
)

// ReadJSON decodes a graph in the preview shape from r.
//
// ReadJSON returns an INVALID_FORMAT error if:
//   - The JSON is malformed
//   - A node label is empty after trimming
//   - A node or edge id is empty or duplicated
//   - An edge references an unknown node
//
// Labels are trimmed. Self-loops and cycles are accepted. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}

	nodes := make([]dag.Node, 0, len(data.Nodes))
	for _, n := range data.Nodes {
		label, err := errs.ValidateLabel(n.Label)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		nodes = append(nodes, dag.Node{ID: n.ID, Label: label, Position: n.Position})
	}

	edges := make([]dag.Edge, 0, len(data.Edges))
	for _, e := range data.Edges {
		edges = append(edges, dag.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}

	g, err := dag.Build(nodes, edges)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "build graph")
	}
	return g, nil
}

// ImportJSON reads the JSON file at path. A missing file yields a
// FILE_NOT_FOUND error; other failures are as for [ReadJSON].
func ImportJSON(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
