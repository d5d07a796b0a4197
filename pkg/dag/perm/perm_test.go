package perm

import (
	"fmt"
	"testing"
)

func TestEachVisitsEveryPermutationOnce(t *testing.T) {
	factorials := []int{1, 1, 2, 6, 24, 120, 720}
	for n, want := range factorials {
		seen := make(map[string]bool)
		Each(n, func(p []int) bool {
			key := fmt.Sprint(p)
			if seen[key] {
				t.Fatalf("n=%d: %v visited twice", n, p)
			}
			seen[key] = true
			return true
		})
		if len(seen) != want {
			t.Errorf("n=%d: %d permutations, want %d", n, len(seen), want)
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	calls := 0
	Each(5, func([]int) bool {
		calls++
		return calls < 3
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestEachReusesSlice(t *testing.T) {
	var first []int
	Each(3, func(p []int) bool {
		if first == nil {
			first = p
			return true
		}
		if &first[0] != &p[0] {
			t.Error("Each allocated a new slice")
		}
		return false
	})
}

func TestSeq(t *testing.T) {
	if got := Seq(-2); len(got) != 0 {
		t.Errorf("Seq(-2) = %v", got)
	}
	if got := fmt.Sprint(Seq(3)); got != "[0 1 2]" {
		t.Errorf("Seq(3) = %s", got)
	}
}
