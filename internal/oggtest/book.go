// SPDX-License-Identifier: EPL-2.0

package oggtest

import (
	"math"
	"math/bits"

	"github.com/ik5/oggdec/internal/bitstream"
	"github.com/ik5/oggdec/internal/huffman"
)

// Float32Pack encodes v in the Vorbis packed float format. Values that need
// more than 21 mantissa bits are truncated.
func Float32Pack(v float64) uint32 {
	if v == 0 {
		return 0
	}
	var sign uint32
	if v < 0 {
		sign = 0x80000000
		v = -v
	}
	frac, exp := math.Frexp(v)
	mantissa := uint32(frac * (1 << 21))
	return sign | uint32(exp+767)<<21 | mantissa&0x1FFFFF
}

// WriteCode appends an MSB-first codeword in transmission order.
func WriteCode(w *bitstream.Writer, code uint32, length int) {
	w.WriteBits(bits.Reverse32(code)>>uint(32-length), length)
}

// Book describes a codebook to serialize.
type Book struct {
	Dimensions int
	Lengths    []int
	Ordered    bool // write lengths with the ordered encoding

	MapType       int
	Min, Delta    float64
	ValueBits     int
	SequenceP     bool
	Multiplicands []uint32
}

// Write appends the codebook definition.
func (b Book) Write(w *bitstream.Writer) {
	w.WriteBits(0x564342, 24)
	w.WriteBits(uint32(b.Dimensions), 16)
	w.WriteBits(uint32(len(b.Lengths)), 24)

	if b.Ordered {
		w.WriteBit(true)
		w.WriteBits(uint32(b.Lengths[0]-1), 5)
		current, length := 0, b.Lengths[0]
		for current < len(b.Lengths) {
			n := 0
			for current+n < len(b.Lengths) && b.Lengths[current+n] == length {
				n++
			}
			w.WriteBits(uint32(n), bits.Len32(uint32(len(b.Lengths)-current)))
			current += n
			length++
		}
	} else {
		w.WriteBit(false)
		sparse := false
		for _, l := range b.Lengths {
			if l == 0 {
				sparse = true
			}
		}
		w.WriteBit(sparse)
		for _, l := range b.Lengths {
			if sparse {
				w.WriteBit(l > 0)
				if l == 0 {
					continue
				}
			}
			w.WriteBits(uint32(l-1), 5)
		}
	}

	w.WriteBits(uint32(b.MapType), 4)
	if b.MapType == 0 {
		return
	}
	w.WriteBits(Float32Pack(b.Min), 32)
	w.WriteBits(Float32Pack(b.Delta), 32)
	w.WriteBits(uint32(b.ValueBits-1), 4)
	w.WriteBit(b.SequenceP)
	for _, m := range b.Multiplicands {
		w.WriteBits(m, b.ValueBits)
	}
}

// Encode appends the codeword of entry. It panics when the lengths do not
// form a valid tree.
func (b Book) Encode(w *bitstream.Writer, entry int) {
	codes, err := huffman.Assign(b.Lengths)
	if err != nil {
		panic(err)
	}
	WriteCode(w, codes[entry], b.Lengths[entry])
}
