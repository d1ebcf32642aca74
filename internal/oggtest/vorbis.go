// SPDX-License-Identifier: EPL-2.0

package oggtest

import (
	"github.com/ik5/oggdec/internal/bitstream"
)

// Layout of the setup written by VorbisSetup.
const (
	PartitionSize  = 8
	FloorRangeBits = 6
	FloorMidX      = 16
)

var (
	// ClassBook selects classification 0 with a single one-bit codeword.
	ClassBook = Book{Dimensions: 1, Lengths: []int{1}}

	// VQBook maps entry e to the pair (±1, ±1): bit 0 picks the first
	// value and bit 1 the second, 0 meaning -1.
	VQBook = Book{
		Dimensions:    2,
		Lengths:       []int{2, 2, 2, 2},
		MapType:       1,
		Min:           -1,
		Delta:         1,
		ValueBits:     2,
		Multiplicands: []uint32{0, 2},
	}

	// YBook codes the middle floor point, 0..15.
	YBook = Book{
		Dimensions: 1,
		Lengths:    []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
	}
)

// VQValues returns the pair of residue values carried by a VQBook entry.
func VQValues(entry int) (float32, float32) {
	v := func(bit int) float32 {
		if entry&bit != 0 {
			return 1
		}
		return -1
	}
	return v(1), v(2)
}

// IdentificationPacket builds an identification header. exp0 and exp1 are
// the block size exponents.
func IdentificationPacket(channels, rate, exp0, exp1 int) []byte {
	w := &bitstream.Writer{}
	writePreamble(w, 1)
	w.WriteBits(0, 32)
	w.WriteBits(uint32(channels), 8)
	w.WriteBits(uint32(rate), 32)
	w.WriteBits(0, 32)
	w.WriteBits(uint32(rate*2), 32)
	w.WriteBits(0, 32)
	w.WriteBits(uint32(exp0), 4)
	w.WriteBits(uint32(exp1), 4)
	w.WriteBit(true)
	return w.Bytes()
}

// CommentPacket builds a comment header.
func CommentPacket(vendor string, comments ...string) []byte {
	w := &bitstream.Writer{}
	writePreamble(w, 3)
	writeString(w, vendor)
	w.WriteBits(uint32(len(comments)), 32)
	for _, c := range comments {
		writeString(w, c)
	}
	w.WriteBit(true)
	return w.Bytes()
}

func writePreamble(w *bitstream.Writer, kind int) {
	w.WriteBits(uint32(kind), 8)
	w.WriteBytes([]byte("vorbis"))
}

func writeString(w *bitstream.Writer, s string) {
	w.WriteBits(uint32(len(s)), 32)
	w.WriteBytes([]byte(s))
}

// VorbisSetup describes a small but complete setup header: three
// codebooks, one floor 1 with a middle point at FloorMidX, one residue
// with a single classification, one mapping, and a short mode 0 and a long
// mode 1.
type VorbisSetup struct {
	Channels    int
	ResidueType int
	ResidueEnd  int
	Coupled     bool // couple channel 0 (magnitude) with channel 1 (angle)
}

// Packet builds the setup header.
func (s VorbisSetup) Packet() []byte {
	w := &bitstream.Writer{}
	writePreamble(w, 5)

	w.WriteBits(3-1, 8)
	ClassBook.Write(w)
	VQBook.Write(w)
	YBook.Write(w)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)

	// floor 1: one partition of class 0, one value from YBook
	w.WriteBits(0, 6)
	w.WriteBits(1, 16)
	w.WriteBits(1, 5)
	w.WriteBits(0, 4)
	w.WriteBits(0, 3)
	w.WriteBits(0, 2)
	w.WriteBits(2+1, 8)
	w.WriteBits(0, 2)
	w.WriteBits(FloorRangeBits, 4)
	w.WriteBits(FloorMidX, FloorRangeBits)

	w.WriteBits(0, 6)
	w.WriteBits(uint32(s.ResidueType), 16)
	w.WriteBits(0, 24)
	w.WriteBits(uint32(s.ResidueEnd), 24)
	w.WriteBits(PartitionSize-1, 24)
	w.WriteBits(0, 6)
	w.WriteBits(0, 8)
	w.WriteBits(1, 3)
	w.WriteBit(false)
	w.WriteBits(1, 8)

	w.WriteBits(0, 6)
	w.WriteBits(0, 16)
	w.WriteBit(false)
	w.WriteBit(s.Coupled)
	if s.Coupled {
		w.WriteBits(0, 8)
		w.WriteBits(0, 1)
		w.WriteBits(1, 1)
	}
	w.WriteBits(0, 2)
	w.WriteBits(0, 8)
	w.WriteBits(0, 8)
	w.WriteBits(0, 8)

	w.WriteBits(2-1, 6)
	for _, long := range []bool{false, true} {
		w.WriteBit(long)
		w.WriteBits(0, 16)
		w.WriteBits(0, 16)
		w.WriteBits(0, 8)
	}
	w.WriteBit(true)
	return w.Bytes()
}

// AudioPacket describes one audio packet for a VorbisSetup stream.
type AudioPacket struct {
	Long       bool
	Prev, Next bool

	// Floor holds the Y values of each channel (first, last, middle).
	// A nil entry marks the channel unused.
	Floor []*[3]int

	// Residue holds VQBook entries per decoded vector, PartitionSize/2
	// per partition. Residue type 2 decodes a single vector. Writing stops
	// when a vector runs out of entries.
	Residue [][]int
}

// Encode builds the packet for a stream with the given block size.
func (s VorbisSetup) Encode(p AudioPacket, blockSize int) []byte {
	w := &bitstream.Writer{}
	w.WriteBit(false)
	w.WriteBit(p.Long)
	if p.Long {
		w.WriteBit(p.Prev)
		w.WriteBit(p.Next)
	}

	decoded := make([]bool, s.Channels)
	for ch := range s.Channels {
		y := p.Floor[ch]
		if y == nil {
			w.WriteBit(false)
			continue
		}
		decoded[ch] = true
		w.WriteBit(true)
		w.WriteBits(uint32(y[0]), 8)
		w.WriteBits(uint32(y[1]), 8)
		YBook.Encode(w, y[2])
	}
	if s.Coupled && (decoded[0] || decoded[1]) {
		decoded[0], decoded[1] = true, true
	}

	limit := blockSize / 2
	vectors := 0
	for _, d := range decoded {
		if d {
			vectors++
		}
	}
	if s.ResidueType == 2 {
		limit *= s.Channels
		if vectors > 0 {
			vectors = 1
		}
	}
	partitions := min(s.ResidueEnd, limit) / PartitionSize
	perPart := PartitionSize / 2

	next := make([]int, vectors)
	for range partitions {
		for range vectors {
			ClassBook.Encode(w, 0)
		}
		for v := range vectors {
			entries := p.Residue[v]
			if next[v]+perPart > len(entries) {
				return w.Bytes()
			}
			for _, e := range entries[next[v] : next[v]+perPart] {
				VQBook.Encode(w, e)
			}
			next[v] += perPart
		}
	}
	return w.Bytes()
}
