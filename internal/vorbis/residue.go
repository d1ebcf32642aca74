// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"

	"github.com/ik5/oggdec/internal/codebook"
)

// Residue decodes the spectral residue of the channels in one submap.
//
// The residue vector is split into partitions of PartitionSize values.
// Each partition has a classification, read as part of a classification
// word from the class book, and each classification names up to eight
// cascade stages whose books add VQ vectors into the partition.
type Residue struct {
	Type            int // 0, 1 or 2
	Begin           int
	End             int
	PartitionSize   int
	Classifications int

	classbook *codebook.Codebook
	cascade   []int
	books     [][8]*codebook.Codebook // nil where the cascade bit is clear
	decodeMap [][]int                 // classification word -> class per dimension
	maxStages int

	classes    []int     // scratch: class of each partition per channel
	interleave []float32 // scratch: residue 2 vector
}

func readResidue(r PacketReader, books []*codebook.Codebook) (*Residue, error) {
	res := &Residue{Type: int(r.ReadBits(16))}
	if res.Type > 2 {
		return nil, fmt.Errorf("%w: residue type %d", ErrInvalidSetup, res.Type)
	}
	res.Begin = int(r.ReadBits(24))
	res.End = int(r.ReadBits(24))
	res.PartitionSize = int(r.ReadBits(24)) + 1
	res.Classifications = int(r.ReadBits(6)) + 1

	classbook := int(r.ReadBits(8))
	if classbook >= len(books) {
		return nil, fmt.Errorf("%w: residue class book %d out of range", ErrInvalidSetup, classbook)
	}
	res.classbook = books[classbook]

	res.cascade = make([]int, res.Classifications)
	for i := range res.cascade {
		low := int(r.ReadBits(3))
		high := 0
		if r.ReadBit() {
			high = int(r.ReadBits(5))
		}
		res.cascade[i] = high<<3 | low
	}

	res.books = make([][8]*codebook.Codebook, res.Classifications)
	for i, cascade := range res.cascade {
		for stage := range 8 {
			if cascade&(1<<stage) == 0 {
				continue
			}
			n := int(r.ReadBits(8))
			if n >= len(books) {
				return nil, fmt.Errorf("%w: residue book %d out of range", ErrInvalidSetup, n)
			}
			if books[n].MapType() == 0 {
				return nil, fmt.Errorf("%w: residue book %d has no lookup", ErrInvalidSetup, n)
			}
			res.books[i][stage] = books[n]
			res.maxStages = max(res.maxStages, stage+1)
		}
	}
	if r.IsShort() {
		return nil, fmt.Errorf("%w: truncated residue", ErrInvalidSetup)
	}

	if err := res.buildDecodeMap(); err != nil {
		return nil, err
	}
	return res, nil
}

// buildDecodeMap splits every classification word into one class per
// class book dimension, most significant first.
func (res *Residue) buildDecodeMap() error {
	dims := res.classbook.Dimensions()
	if dims == 0 {
		return fmt.Errorf("%w: residue class book has no dimensions", ErrInvalidSetup)
	}
	partvals := 1
	for range dims {
		partvals *= res.Classifications
		if partvals > res.classbook.Entries() {
			return fmt.Errorf("%w: %d classifications need more than %d class book entries",
				ErrInvalidSetup, res.Classifications, res.classbook.Entries())
		}
	}

	res.decodeMap = make([][]int, partvals)
	for word := range res.decodeMap {
		classes := make([]int, dims)
		val := word
		for k := dims - 1; k >= 0; k-- {
			classes[k] = val % res.Classifications
			val /= res.Classifications
		}
		res.decodeMap[word] = classes
	}
	return nil
}

// Decode adds the residue of one packet into buffers, one per channel of
// the submap, each at least blockSize/2 long. Channels flagged in
// doNotDecode are left untouched. Decoding stops at the first invalid
// codeword and keeps what was added so far.
func (res *Residue) Decode(r PacketReader, doNotDecode []bool, blockSize int, buffers [][]float32) {
	n := blockSize / 2

	if res.Type != 2 {
		res.decode(r, doNotDecode, buffers, n)
		return
	}

	decode := false
	for _, skip := range doNotDecode {
		decode = decode || !skip
	}
	if !decode {
		return
	}

	channels := len(buffers)
	size := n * channels
	if cap(res.interleave) < size {
		res.interleave = make([]float32, size)
	}
	v := res.interleave[:size]
	clear(v)

	res.decode(r, []bool{false}, [][]float32{v}, size)

	for i := range n {
		for ch, buf := range buffers {
			buf[i] += v[i*channels+ch]
		}
	}
}

func (res *Residue) decode(r PacketReader, doNotDecode []bool, vectors [][]float32, limit int) {
	begin := min(res.Begin, limit)
	end := min(res.End, limit)
	partitions := (end - begin) / res.PartitionSize
	if partitions <= 0 || res.maxStages == 0 {
		return
	}

	dims := res.classbook.Dimensions()
	stride := (partitions + dims - 1) / dims * dims
	if need := stride * len(vectors); cap(res.classes) < need {
		res.classes = make([]int, need)
	}
	classes := res.classes[:stride*len(vectors)]

	for stage := range res.maxStages {
		for part := 0; part < partitions; {
			if stage == 0 {
				for ch := range vectors {
					if doNotDecode[ch] {
						continue
					}
					word := res.classbook.DecodeScalar(r)
					if word < 0 || word >= len(res.decodeMap) {
						return
					}
					copy(classes[ch*stride+part:], res.decodeMap[word])
				}
			}

			for d := 0; d < dims && part < partitions; d++ {
				offset := begin + part*res.PartitionSize
				for ch, v := range vectors {
					if doNotDecode[ch] {
						continue
					}
					book := res.books[classes[ch*stride+part]][stage]
					if book == nil {
						continue
					}
					if !res.writeVectors(r, book, v[offset:offset+res.PartitionSize]) {
						return
					}
				}
				part++
			}
		}
	}
}

// writeVectors adds one partition worth of VQ vectors into part.
func (res *Residue) writeVectors(r PacketReader, book *codebook.Codebook, part []float32) bool {
	if res.Type == 0 {
		step := len(part) / book.Dimensions()
		for i := range step {
			vec := book.DecodeVector(r)
			if vec == nil {
				return false
			}
			for k, x := range vec {
				part[i+k*step] += x
			}
		}
		return true
	}

	for i := 0; i < len(part); {
		vec := book.DecodeVector(r)
		if vec == nil {
			return false
		}
		for _, x := range vec {
			if i == len(part) {
				break
			}
			part[i] += x
			i++
		}
	}
	return true
}
