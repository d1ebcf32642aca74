// SPDX-License-Identifier: EPL-2.0

package huffman

import (
	"math/bits"
)

// MaxLength is the longest codeword a Vorbis codebook may declare.
const MaxLength = 32

// prefixBits bounds the size of the direct lookup table.
const prefixBits = 10

// BitPeeker is the part of a bit reader the decoder needs.
type BitPeeker interface {
	PeekBits(count int) (uint32, int)
	SkipBits(count int)
}

// Table decodes codewords built from a list of codeword lengths.
type Table struct {
	prefixBits int
	prefix     []ListNode // indexed by the next prefixBits bits
	overflow   []ListNode // codewords longer than prefixBits, in Compare order
	maxLength  int
	single     *ListNode
	used       int
}

// Assign returns the codeword of each entry, MSB-first, following the Vorbis
// rule that each used entry takes the lowest free codeword of its length.
// A length of zero marks an unused entry.
func Assign(lengths []int) ([]uint32, error) {
	var marker [MaxLength + 1]uint32
	codes := make([]uint32, len(lengths))
	used := 0

	for i, length := range lengths {
		if length == 0 {
			continue
		}
		if length < 0 || length > MaxLength {
			return nil, ErrInvalidLength
		}
		used++

		entry := marker[length]
		if length < MaxLength && entry>>uint(length) != 0 {
			return nil, ErrOverspecified
		}
		codes[i] = entry

		// Walk up the tree: the branch we just took is now used.
		for j := length; j > 0; j-- {
			if marker[j]&1 != 0 {
				if j == 1 {
					marker[1]++
				} else {
					marker[j] = marker[j-1] << 1
				}
				break
			}
			marker[j]++
		}

		// Walk down: longer codewords that would hang off this one move on.
		for j := length + 1; j <= MaxLength; j++ {
			if marker[j]>>1 != entry {
				break
			}
			entry = marker[j]
			marker[j] = marker[j-1] << 1
		}
	}

	if used != 1 {
		for i := 1; i <= MaxLength; i++ {
			if marker[i]&(0xFFFFFFFF>>uint(32-i)) != 0 {
				return nil, ErrUnderspecified
			}
		}
	}
	return codes, nil
}

// NewTable builds a decode table. The returned symbols are entry numbers.
func NewTable(lengths []int) (*Table, error) {
	codes, err := Assign(lengths)
	if err != nil {
		return nil, err
	}

	nodes := make([]ListNode, 0, len(lengths))
	maxLength := 0
	for i, length := range lengths {
		if length == 0 {
			continue
		}
		rev := bits.Reverse32(codes[i]) >> uint(32-length)
		nodes = append(nodes, ListNode{
			Value:  i,
			Length: length,
			Bits:   int(rev),
			Mask:   int(uint32(1)<<uint(length) - 1),
		})
		maxLength = max(maxLength, length)
	}

	t := &Table{maxLength: maxLength, used: len(nodes)}
	if len(nodes) == 1 {
		// A lone entry has no real tree: any bit pattern selects it.
		t.single = &nodes[0]
		return t, nil
	}
	if len(nodes) == 0 {
		return t, nil
	}

	Sort(nodes)

	t.prefixBits = min(maxLength, prefixBits)
	t.prefix = make([]ListNode, 1<<uint(t.prefixBits))
	for _, n := range nodes {
		if n.Length > t.prefixBits {
			t.overflow = append(t.overflow, n)
			continue
		}
		for idx := n.Bits; idx < len(t.prefix); idx += 1 << uint(n.Length) {
			t.prefix[idx] = n
		}
	}
	return t, nil
}

// Used returns the number of entries with a codeword.
func (t *Table) Used() int { return t.used }

// MaxLength returns the longest codeword length in the table.
func (t *Table) MaxLength() int { return t.maxLength }

// Decode reads one codeword and returns its entry number, or -1 when the
// bits match no codeword or the data ran out.
func (t *Table) Decode(r BitPeeker) int {
	if t.single != nil {
		_, avail := r.PeekBits(t.single.Length)
		r.SkipBits(t.single.Length)
		if avail < t.single.Length {
			return -1
		}
		return t.single.Value
	}
	if t.used == 0 {
		return -1
	}

	v, avail := r.PeekBits(t.prefixBits)
	if n := t.prefix[v]; n.Length > 0 && n.Length <= avail {
		r.SkipBits(n.Length)
		return n.Value
	}

	if len(t.overflow) > 0 {
		v, avail = r.PeekBits(t.maxLength)
		for _, n := range t.overflow {
			if n.Length > avail {
				break
			}
			if int(v)&n.Mask == n.Bits {
				r.SkipBits(n.Length)
				return n.Value
			}
		}
	}

	if avail < t.maxLength {
		// Truncated packet: consume what is left so the reader reports short.
		r.SkipBits(t.maxLength)
	}
	return -1
}
