package layout

import "github.com/matzehuels/stagegraph/pkg/dag"

// assignCoordinates stacks the real nodes of each rank and centers every
// stack against the tallest one.
func assignCoordinates(l *dag.Layered, orders map[int][]string, opts Options, out map[string]dag.Position) {
	stacks := make(map[int][]string, len(orders))
	tallest := 0
	for rank, ids := range orders {
		var regular []string
		for _, id := range ids {
			if n, ok := l.Node(id); ok && !n.IsVirtual() {
				regular = append(regular, id)
			}
		}
		stacks[rank] = regular
		tallest = max(tallest, len(regular))
	}

	height := func(k int) float64 {
		if k == 0 {
			return 0
		}
		return float64(k)*opts.NodeHeight + float64(k-1)*opts.NodeSep
	}

	halfW, halfH := opts.NodeWidth/2, opts.NodeHeight/2
	for rank, ids := range stacks {
		offset := (height(tallest) - height(len(ids))) / 2
		cx := float64(rank)*(opts.NodeWidth+opts.RankSep) + halfW
		for i, id := range ids {
			cy := offset + float64(i)*(opts.NodeHeight+opts.NodeSep) + halfH
			out[id] = dag.Position{X: cx - halfW, Y: cy - halfH}
		}
	}
}
