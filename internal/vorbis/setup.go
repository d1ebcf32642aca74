// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"

	"github.com/ik5/oggdec/internal/codebook"
)

// Setup holds the decoder configuration from the third Vorbis header.
type Setup struct {
	Codebooks []*codebook.Codebook
	Residues  []*Residue
	Mappings  []*Mapping
	Modes     []*Mode

	floors []floor
}

// FloorTypes returns the type of each configured floor.
func (s *Setup) FloorTypes() []int {
	types := make([]int, len(s.floors))
	for i, f := range s.floors {
		types[i] = f.Type()
	}
	return types
}

// ReadSetup parses a setup header packet for the stream described by id.
func ReadSetup(r PacketReader, id *Identification) (*Setup, error) {
	if err := readPreamble(r, HeaderSetup); err != nil {
		return nil, err
	}
	s := &Setup{}

	count := int(r.ReadBits(8)) + 1
	for i := range count {
		book, err := codebook.Read(r)
		if err != nil {
			return nil, fmt.Errorf("%w: codebook %d: %w", ErrInvalidSetup, i, err)
		}
		s.Codebooks = append(s.Codebooks, book)
	}

	count = int(r.ReadBits(6)) + 1
	for range count {
		if v := r.ReadBits(16); v != 0 {
			return nil, fmt.Errorf("%w: time domain transform %d", ErrInvalidSetup, v)
		}
	}

	count = int(r.ReadBits(6)) + 1
	for i := range count {
		var (
			f   floor
			err error
		)
		switch t := r.ReadBits(16); t {
		case 0:
			f, err = readFloor0(r, s.Codebooks, id)
		case 1:
			f, err = readFloor1(r, s.Codebooks)
		default:
			err = fmt.Errorf("%w: floor %d has type %d", ErrInvalidSetup, i, t)
		}
		if err != nil {
			return nil, err
		}
		s.floors = append(s.floors, f)
	}

	count = int(r.ReadBits(6)) + 1
	for range count {
		res, err := readResidue(r, s.Codebooks)
		if err != nil {
			return nil, err
		}
		s.Residues = append(s.Residues, res)
	}

	count = int(r.ReadBits(6)) + 1
	for range count {
		m, err := readMapping(r, id.Channels, s.floors, s.Residues)
		if err != nil {
			return nil, err
		}
		s.Mappings = append(s.Mappings, m)
	}

	cache := windowCache{}
	count = int(r.ReadBits(6)) + 1
	for range count {
		m, err := readMode(r, id, s.Mappings, cache)
		if err != nil {
			return nil, err
		}
		s.Modes = append(s.Modes, m)
	}

	if !r.ReadBit() || r.IsShort() {
		return nil, fmt.Errorf("%w: missing framing bit", ErrInvalidSetup)
	}
	return s, nil
}
