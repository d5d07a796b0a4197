package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stagegraph/pkg/dag"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
)

func sample(t *testing.T) *dag.Graph {
	t.Helper()
	g, err := dag.Build(
		[]dag.Node{
			{ID: "n1", Label: "Extract", Position: dag.Position{X: 0, Y: 0}},
			{ID: "n2", Label: "Transform", Position: dag.Position{X: 220, Y: 12.5}},
		},
		[]dag.Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(t), &buf); err != nil {
		t.Fatal(err)
	}

	want := `{
  "nodes": [
    {
      "id": "n1",
      "label": "Extract",
      "position": {
        "x": 0,
        "y": 0
      }
    },
    {
      "id": "n2",
      "label": "Transform",
      "position": {
        "x": 220,
        "y": 12.5
      }
    }
  ],
  "edges": [
    {
      "id": "e1",
      "source": "n1",
      "target": "n2"
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("WriteJSON() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteJSONEmptyGraph(t *testing.T) {
	b, err := MarshalJSON(dag.New())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"nodes\": [],\n  \"edges\": []\n}" {
		t.Errorf("MarshalJSON(empty) = %s", b)
	}
}

func TestReadJSONRestoresGraph(t *testing.T) {
	g := sample(t)
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := got.Node("n2")
	if !ok || n.Label != "Transform" || n.Position.Y != 12.5 {
		t.Errorf("node n2 = %+v", n)
	}
	if e, ok := got.Edge("e1"); !ok || e.Source != "n1" || e.Target != "n2" {
		t.Errorf("edge e1 = %+v", e)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"empty label", `{"nodes": [{"id": "a", "label": "  "}], "edges": []}`},
		{"duplicate node", `{"nodes": [{"id": "a", "label": "A"}, {"id": "a", "label": "B"}], "edges": []}`},
		{"dangling edge", `{"nodes": [{"id": "a", "label": "A"}], "edges": [{"id": "e", "source": "a", "target": "b"}]}`},
		{"missing edge id", `{"nodes": [{"id": "a", "label": "A"}, {"id": "b", "label": "B"}], "edges": [{"source": "a", "target": "b"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadJSONAcceptsSelfLoop(t *testing.T) {
	in := `{"nodes": [{"id": "a", "label": "A"}], "edges": [{"id": "e", "source": "a", "target": "a"}]}`
	g, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(sample(t), path); err != nil {
		t.Fatal(err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("imported %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t))

	for _, want := range []string{
		"rankdir=LR;",
		`"n1" [label="Extract"];`,
		`"n2" [label="Transform"];`,
		`"n1" -> "n2" [comment="e1"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTQuotesLabels(t *testing.T) {
	g, _ := dag.Build([]dag.Node{{ID: "x", Label: `say "hi"`}}, nil)
	if dot := ToDOT(g); !strings.Contains(dot, `[label="say \"hi\""]`) {
		t.Errorf("label not escaped:\n%s", dot)
	}
}

func TestToDOTEscaping(t *testing.T) {
	g, err := dag.Build(
		[]dag.Node{
			{ID: "a", Label: "two\nlines"},
			{ID: "b", Label: `C:\tmp\x01` + "\x07\xff"},
		},
		[]dag.Edge{{ID: "e1\n  \"evil\" [label=\"pwned\"];", Source: "a", Target: "b"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g)

	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"evil"`) {
			t.Fatalf("edge id produced its own statement:\n%s", dot)
		}
	}

	tests := []struct {
		name string
		want string
	}{
		{"edge id", `"a" -> "b" [comment="e1\n  \"evil\" [label=\"pwned\"];"];`},
		{"newline label", `"a" [label="two\nlines"];`},
		{"backslash and control", "\"b\" [label=\"C:\\\\tmp\\\\x01\uFFFD\"];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %s:\n%s", tt.want, dot)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering skipped in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Extract")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}
