package layout

import (
	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/dag/perm"
)

// DefaultMaxRankSize bounds the ranks Exhaustive will permute: 7! = 5040
// orderings per rank and round.
const DefaultMaxRankSize = 7

const exhaustiveRounds = 4

// Exhaustive refines another orderer by trying every permutation of each
// small rank while its neighbors stay fixed, keeping the one with the
// fewest crossings against both neighbors. Rounds repeat until nothing
// improves. The result never has more crossings than Base alone.
type Exhaustive struct {
	// Base produces the starting order. Nil means Barycentric with
	// transposition.
	Base Orderer
	// MaxRankSize skips ranks with more nodes. Zero means
	// DefaultMaxRankSize.
	MaxRankSize int
}

// OrderRanks implements Orderer.
func (e Exhaustive) OrderRanks(l *dag.Layered) map[int][]string {
	base := e.Base
	if base == nil {
		base = Barycentric{Transpose: true}
	}
	limit := e.MaxRankSize
	if limit <= 0 {
		limit = DefaultMaxRankSize
	}

	orders := base.OrderRanks(l)
	maxRank := l.MaxRank()

	for range exhaustiveRounds {
		improved := false
		for r := 0; r <= maxRank; r++ {
			ids := orders[r]
			if len(ids) < 2 || len(ids) > limit {
				continue
			}
			if best, ok := bestPermutation(l, orders, r); ok {
				orders[r] = best
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return orders
}

// bestPermutation returns the ordering of rank r with the fewest crossings
// against ranks r-1 and r+1, and whether it beats the current one.
func bestPermutation(l *dag.Layered, orders map[int][]string, r int) ([]string, bool) {
	ids := orders[r]
	above, below := orders[r-1], orders[r+1]

	cost := func(candidate []string) int {
		return dag.CountLayerCrossings(l, above, candidate) + dag.CountLayerCrossings(l, candidate, below)
	}

	bestCost := cost(ids)
	var best []string
	perm.Each(len(ids), func(p []int) bool {
		candidate := perm.Apply(ids, p)
		if c := cost(candidate); c < bestCost {
			best, bestCost = candidate, c
		}
		return bestCost > 0
	})
	return best, best != nil
}
