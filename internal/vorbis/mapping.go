// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"

	"github.com/ik5/oggdec/internal/codebook"
	"github.com/ik5/oggdec/internal/mdct"
)

// CouplingStep pairs two channels stored as magnitude and angle.
type CouplingStep struct {
	Magnitude int
	Angle     int
}

type submap struct {
	floor   floor
	residue *Residue
}

// Mapping ties channels to floors and residues and describes channel
// coupling.
type Mapping struct {
	Coupling []CouplingStep
	Mux      []int // submap of each channel

	submaps []submap
}

func readMapping(r PacketReader, channels int, floors []floor, residues []*Residue) (*Mapping, error) {
	if t := r.ReadBits(16); t != 0 {
		return nil, fmt.Errorf("%w: mapping type %d", ErrInvalidSetup, t)
	}

	count := 1
	if r.ReadBit() {
		count = int(r.ReadBits(4)) + 1
	}

	m := &Mapping{Mux: make([]int, channels)}
	if r.ReadBit() {
		steps := int(r.ReadBits(8)) + 1
		bits := codebook.ILog(uint32(channels - 1))
		for range steps {
			step := CouplingStep{
				Magnitude: int(r.ReadBits(bits)),
				Angle:     int(r.ReadBits(bits)),
			}
			if step.Magnitude == step.Angle || step.Magnitude >= channels || step.Angle >= channels {
				return nil, fmt.Errorf("%w: coupling %d/%d with %d channels",
					ErrInvalidSetup, step.Magnitude, step.Angle, channels)
			}
			m.Coupling = append(m.Coupling, step)
		}
	}

	if r.ReadBits(2) != 0 {
		return nil, fmt.Errorf("%w: mapping reserved bits set", ErrInvalidSetup)
	}
	if count > 1 {
		for ch := range m.Mux {
			m.Mux[ch] = int(r.ReadBits(4))
			if m.Mux[ch] >= count {
				return nil, fmt.Errorf("%w: channel %d uses submap %d of %d",
					ErrInvalidSetup, ch, m.Mux[ch], count)
			}
		}
	}

	m.submaps = make([]submap, count)
	for i := range m.submaps {
		r.ReadBits(8) // unused time configuration
		f := int(r.ReadBits(8))
		res := int(r.ReadBits(8))
		if f >= len(floors) || res >= len(residues) {
			return nil, fmt.Errorf("%w: submap %d floor %d residue %d out of range", ErrInvalidSetup, i, f, res)
		}
		m.submaps[i] = submap{floor: floors[f], residue: residues[res]}
	}
	if r.IsShort() {
		return nil, fmt.Errorf("%w: truncated mapping", ErrInvalidSetup)
	}
	return m, nil
}

// Submaps returns the number of submaps.
func (m *Mapping) Submaps() int { return len(m.submaps) }

// decode fills buffers[ch][:blockSize] with the unwindowed time domain
// block of every channel.
func (m *Mapping) decode(r PacketReader, b *Block, blockSize int, buffers [][]float32) {
	half := blockSize / 2

	for ch, sm := range m.Mux {
		b.unused[ch] = !m.submaps[sm].floor.read(r, &b.floors[ch])
		b.noResidue[ch] = b.unused[ch]
		clear(b.residues[ch][:half])
	}

	for _, c := range m.Coupling {
		if !b.noResidue[c.Magnitude] || !b.noResidue[c.Angle] {
			b.noResidue[c.Magnitude] = false
			b.noResidue[c.Angle] = false
		}
	}

	for i, sm := range m.submaps {
		b.subVectors = b.subVectors[:0]
		b.subSkip = b.subSkip[:0]
		for ch, idx := range m.Mux {
			if idx == i {
				b.subVectors = append(b.subVectors, b.residues[ch][:half])
				b.subSkip = append(b.subSkip, b.noResidue[ch])
			}
		}
		sm.residue.Decode(r, b.subSkip, blockSize, b.subVectors)
	}

	for i := len(m.Coupling) - 1; i >= 0; i-- {
		c := m.Coupling[i]
		uncouple(b.residues[c.Magnitude][:half], b.residues[c.Angle][:half])
	}

	transform := b.transform(blockSize)
	for ch, sm := range m.Mux {
		out := buffers[ch][:blockSize]
		if b.unused[ch] {
			clear(out)
			continue
		}
		spectrum := b.residues[ch][:half]
		m.submaps[sm].floor.apply(&b.floors[ch], spectrum)
		transform.Inverse(spectrum, out)
	}
}

// uncouple restores two channels from square polar magnitude and angle.
func uncouple(magnitude, angle []float32) {
	for i, mv := range magnitude {
		av := angle[i]
		switch {
		case mv > 0 && av > 0:
			angle[i] = mv - av
		case mv > 0:
			magnitude[i], angle[i] = mv+av, mv
		case av > 0:
			angle[i] = mv + av
		default:
			magnitude[i], angle[i] = mv-av, mv
		}
	}
}

// Block is the per-decoder scratch space for one audio packet. A Block is
// not safe for concurrent use.
type Block struct {
	floors    []floorData
	unused    []bool
	noResidue []bool
	residues  [][]float32

	subVectors [][]float32
	subSkip    []bool

	blockSize0 int
	imdct      [2]*mdct.IMDCT
}

// NewBlock returns scratch space sized for the stream described by id.
func NewBlock(id *Identification) *Block {
	b := &Block{
		floors:     make([]floorData, id.Channels),
		unused:     make([]bool, id.Channels),
		noResidue:  make([]bool, id.Channels),
		residues:   make([][]float32, id.Channels),
		blockSize0: id.BlockSize0,
	}
	for ch := range b.residues {
		b.residues[ch] = make([]float32, id.BlockSize1/2)
	}
	b.imdct[0] = mdct.New(id.BlockSize0)
	b.imdct[1] = b.imdct[0]
	if id.BlockSize1 != id.BlockSize0 {
		b.imdct[1] = mdct.New(id.BlockSize1)
	}
	return b
}

func (b *Block) transform(blockSize int) *mdct.IMDCT {
	if blockSize == b.blockSize0 {
		return b.imdct[0]
	}
	return b.imdct[1]
}
