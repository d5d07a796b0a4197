package transform

import (
	"fmt"

	"github.com/matzehuels/stagegraph/pkg/dag"
)

// Subdivide breaks edges that span more than one rank into chains of
// single-rank edges joined by virtual nodes, and returns the number of
// virtual nodes it inserted:
//
//	Before: extract (rank 0) → report (rank 3)
//	After:  extract → extract_v_1 → extract_v_2 → report
//
// Each edge gets its own chain, so parallel long edges stay distinct during
// crossing reduction.
//
// Virtual IDs have the form "source_v_rank"; on collision a numeric suffix
// is appended ("source_v_1__2").
//
// O(V·R) time where R is the number of ranks.
func Subdivide(g *dag.Layered) int {
	gen := newIDGen(g.Nodes())
	inserted := 0

	var toRemove []dag.LayerEdge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Rank <= src.Rank+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for rank := src.Rank + 1; rank < dst.Rank; rank++ {
			prevID = addVirtual(g, gen, prevID, src.ID, rank)
			inserted++
		}
		if err := g.AddEdge(dag.LayerEdge{From: prevID, To: dst.ID}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
	return inserted
}

func addVirtual(g *dag.Layered, gen *idGen, from, base string, rank int) string {
	id := gen.next(base, rank)
	if err := g.AddNode(dag.LayerNode{ID: id, Rank: rank, Kind: dag.NodeKindVirtual}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.LayerEdge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.LayerNode) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, rank int) string {
	prefix := fmt.Sprintf("%s_v_%d", base, rank)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
