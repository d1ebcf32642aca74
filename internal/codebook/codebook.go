// SPDX-License-Identifier: EPL-2.0

// Package codebook reads Vorbis codebooks from a setup header and decodes
// entries from audio packets.
package codebook

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/ik5/oggdec/internal/huffman"
)

// syncPattern is the 24-bit "BCV" marker that starts every codebook.
const syncPattern = 0x564342

// maxLookupValues bounds entries*dimensions of a codebook with a lookup
// table.
const maxLookupValues = 1 << 22

// BitReader is the bit cursor a codebook reads from.
type BitReader interface {
	ReadBits(count int) uint32
	ReadBit() bool
	PeekBits(count int) (uint32, int)
	SkipBits(count int)
	IsShort() bool
}

// Codebook maps Huffman codewords to entries and, for lookup types 1 and
// 2, entries to vectors of Dimensions values.
type Codebook struct {
	dimensions int
	entries    int
	mapType    int
	lengths    []int
	table      *huffman.Table
	lookup     []float32 // entries*dimensions, nil for map type 0
}

// Read parses a codebook definition.
func Read(r BitReader) (*Codebook, error) {
	if r.ReadBits(24) != syncPattern {
		return nil, ErrBadSync
	}

	c := &Codebook{
		dimensions: int(r.ReadBits(16)),
		entries:    int(r.ReadBits(24)),
	}
	if c.entries == 0 {
		return nil, fmt.Errorf("%w: zero entries", ErrInvalidCodebook)
	}

	lengths, err := readLengths(r, c.entries)
	if err != nil {
		return nil, err
	}
	c.lengths = lengths

	c.mapType = int(r.ReadBits(4))
	switch c.mapType {
	case 0:
	case 1, 2:
		if c.dimensions == 0 {
			return nil, fmt.Errorf("%w: zero dimensions with lookup", ErrInvalidCodebook)
		}
		if c.entries*c.dimensions > maxLookupValues {
			return nil, fmt.Errorf("%w: %d entries of %d dimensions", ErrInvalidCodebook, c.entries, c.dimensions)
		}
		c.lookup = readLookup(r, c.mapType, c.dimensions, c.entries)
	default:
		return nil, fmt.Errorf("%w: lookup type %d", ErrInvalidCodebook, c.mapType)
	}
	if r.IsShort() {
		return nil, ErrTruncated
	}

	c.table, err = huffman.NewTable(lengths)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCodebook, err)
	}
	return c, nil
}

func readLengths(r BitReader, entries int) ([]int, error) {
	lengths := make([]int, entries)

	if r.ReadBit() {
		// Ordered: runs of entries with increasing lengths.
		length := int(r.ReadBits(5)) + 1
		for current := 0; current < entries; length++ {
			if length > huffman.MaxLength {
				return nil, fmt.Errorf("%w: ordered length overflow", ErrInvalidCodebook)
			}
			number := int(r.ReadBits(ILog(uint32(entries - current))))
			if current+number > entries {
				return nil, fmt.Errorf("%w: ordered run past entry count", ErrInvalidCodebook)
			}
			for i := current; i < current+number; i++ {
				lengths[i] = length
			}
			current += number
			if r.IsShort() {
				return nil, ErrTruncated
			}
		}
		return lengths, nil
	}

	sparse := r.ReadBit()
	for i := range lengths {
		if sparse && !r.ReadBit() {
			continue
		}
		lengths[i] = int(r.ReadBits(5)) + 1
		if r.IsShort() {
			return nil, ErrTruncated
		}
	}
	if r.IsShort() {
		return nil, ErrTruncated
	}
	return lengths, nil
}

func readLookup(r BitReader, mapType, dimensions, entries int) []float32 {
	minimum := Float32Unpack(r.ReadBits(32))
	delta := Float32Unpack(r.ReadBits(32))
	valueBits := int(r.ReadBits(4)) + 1
	sequenceP := r.ReadBit()

	var count int
	if mapType == 1 {
		count = Lookup1Values(entries, dimensions)
	} else {
		count = entries * dimensions
	}
	multiplicands := make([]uint32, count)
	for i := range multiplicands {
		multiplicands[i] = r.ReadBits(valueBits)
		if r.IsShort() {
			return nil
		}
	}

	lookup := make([]float32, entries*dimensions)
	for entry := range entries {
		var last float32
		divisor := 1
		for dim := range dimensions {
			var offset int
			if mapType == 1 {
				offset = (entry / divisor) % count
				divisor *= count
			} else {
				offset = entry*dimensions + dim
			}
			v := float32(multiplicands[offset])*delta + minimum + last
			if sequenceP {
				last = v
			}
			lookup[entry*dimensions+dim] = v
		}
	}
	return lookup
}

// Dimensions returns the vector length of each entry.
func (c *Codebook) Dimensions() int { return c.dimensions }

// Entries returns the number of entries.
func (c *Codebook) Entries() int { return c.entries }

// MapType returns the lookup type (0, 1 or 2).
func (c *Codebook) MapType() int { return c.mapType }

// Length returns the codeword length of entry, 0 when unused.
func (c *Codebook) Length(entry int) int { return c.lengths[entry] }

// DecodeScalar reads one codeword and returns its entry number, or -1.
func (c *Codebook) DecodeScalar(r BitReader) int {
	return c.table.Decode(r)
}

// Lookup returns the vector of entry. It is nil for map type 0 or an
// out-of-range entry. The slice aliases the codebook and must not be
// modified.
func (c *Codebook) Lookup(entry int) []float32 {
	if c.lookup == nil || entry < 0 || entry >= c.entries {
		return nil
	}
	return c.lookup[entry*c.dimensions : (entry+1)*c.dimensions]
}

// DecodeVector reads one codeword and returns its vector, or nil.
func (c *Codebook) DecodeVector(r BitReader) []float32 {
	return c.Lookup(c.DecodeScalar(r))
}

// Float32Unpack converts the Vorbis packed float format.
func Float32Unpack(x uint32) float32 {
	mantissa := float64(x & 0x1FFFFF)
	exponent := int((x & 0x7FE00000) >> 21)
	if x&0x80000000 != 0 {
		mantissa = -mantissa
	}
	return float32(math.Ldexp(mantissa, exponent-788))
}

// Lookup1Values returns the largest r such that r^dimensions <= entries.
func Lookup1Values(entries, dimensions int) int {
	r := int(math.Floor(math.Exp(math.Log(float64(entries)) / float64(dimensions))))
	for pow(r+1, dimensions) <= entries {
		r++
	}
	for r > 0 && pow(r, dimensions) > entries {
		r--
	}
	return r
}

func pow(base, exp int) int {
	out := 1
	for range exp {
		out *= base
		if out > math.MaxInt32 {
			return out
		}
	}
	return out
}

// ILog returns the number of bits needed to represent v (ilog in the
// Vorbis specification): 0 for 0, 1 for 1, 2 for 2 and 3, and so on.
func ILog(v uint32) int {
	return bits.Len32(v)
}
