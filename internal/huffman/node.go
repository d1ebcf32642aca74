// SPDX-License-Identifier: EPL-2.0

// Package huffman builds the decode tables for Vorbis codebooks.
//
// Vorbis codebooks never store codewords. Only the codeword length of each
// entry is transmitted, and the codewords are implied by assigning, in entry
// order, the lowest free codeword of the requested length. Decoding then
// relies on a total order over (length, bits) so that a shorter codeword is
// always tried before any longer one that it could be confused with.
package huffman

import (
	"cmp"
	"slices"
)

// ListNode is a codebook entry while its decode table is being built.
type ListNode struct {
	Value  int // entry number
	Length int // codeword length in bits
	Bits   int // codeword, bit reversed for LSB-first reading
	Mask   int // 1<<Length - 1
}

// Compare orders nodes by codeword length and then by the numeric value of
// the codeword bits. Value never takes part in the order.
func Compare(a, b ListNode) int {
	if c := cmp.Compare(a.Length, b.Length); c != 0 {
		return c
	}
	return cmp.Compare(a.Bits, b.Bits)
}

// Sort orders nodes in place with Compare.
func Sort(nodes []ListNode) {
	slices.SortStableFunc(nodes, Compare)
}
