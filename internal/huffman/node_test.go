// SPDX-License-Identifier: EPL-2.0

package huffman

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b ListNode
		want int
	}{
		{"shorter first", ListNode{Length: 2, Bits: 3}, ListNode{Length: 3, Bits: 0}, -1},
		{"longer last", ListNode{Length: 5, Bits: 0}, ListNode{Length: 4, Bits: 15}, 1},
		{"bits break ties", ListNode{Length: 4, Bits: 2}, ListNode{Length: 4, Bits: 9}, -1},
		{"value ignored", ListNode{Value: 9, Length: 3, Bits: 1}, ListNode{Value: 1, Length: 3, Bits: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare() reversed = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestSort_TotalOrder(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 50 {
		nodes := make([]ListNode, 64)
		for i := range nodes {
			nodes[i] = ListNode{
				Value:  i,
				Length: 1 + rng.IntN(6),
				Bits:   rng.IntN(8),
			}
		}
		Sort(nodes)

		for i := 1; i < len(nodes); i++ {
			a, b := nodes[i-1], nodes[i]
			if a.Length > b.Length || (a.Length == b.Length && a.Bits > b.Bits) {
				t.Fatalf("round %d: nodes %d,%d out of order: %+v %+v", round, i-1, i, a, b)
			}
		}

		// Equal (length, bits) pairs must be adjacent.
		seen := map[[2]int]int{}
		for i, n := range nodes {
			key := [2]int{n.Length, n.Bits}
			if last, ok := seen[key]; ok && last != i-1 {
				t.Fatalf("round %d: pair %v not adjacent (%d, %d)", round, key, last, i)
			}
			seen[key] = i
		}
	}
}

func TestSort_StableForEqualKeys(t *testing.T) {
	t.Parallel()

	nodes := []ListNode{
		{Value: 3, Length: 2, Bits: 1},
		{Value: 1, Length: 1, Bits: 0},
		{Value: 2, Length: 2, Bits: 1},
	}
	Sort(nodes)

	got := []int{nodes[0].Value, nodes[1].Value, nodes[2].Value}
	if !slices.Equal(got, []int{1, 3, 2}) {
		t.Errorf("values after Sort = %v, want [1 3 2]", got)
	}
}
