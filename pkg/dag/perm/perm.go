// Package perm enumerates permutations for exhaustive in-rank ordering.
package perm

// Seq returns [0, 1, ..., n-1]. For n <= 0 it returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Each calls fn with every permutation of [0, n) in Heap's order, starting
// with the identity. The slice is reused between calls; clone it to keep
// it. Enumeration stops early when fn returns false.
func Each(n int, fn func(p []int) bool) {
	p := Seq(n)
	if !fn(p) || n < 2 {
		return
	}

	state := make([]int, n)
	for i := 0; i < n; {
		if state[i] < i {
			if i%2 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			if !fn(p) {
				return
			}
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
}

// Apply returns items reordered so that result[i] = items[p[i]].
func Apply[T any](items []T, p []int) []T {
	out := make([]T, len(p))
	for i, j := range p {
		out[i] = items[j]
	}
	return out
}
