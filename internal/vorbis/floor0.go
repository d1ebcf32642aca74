// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"math"

	"github.com/ik5/oggdec/internal/codebook"
)

// floor0 is the LSP floor.
type floor0 struct {
	order           int
	rate            int
	barkMapSize     int
	amplitudeBits   int
	amplitudeOffset int
	books           []*codebook.Codebook
	bookBits        int

	barkMaps map[int][]int // half block size -> bark map
}

func readFloor0(r PacketReader, books []*codebook.Codebook, id *Identification) (*floor0, error) {
	f := &floor0{
		order:           int(r.ReadBits(8)),
		rate:            int(r.ReadBits(16)),
		barkMapSize:     int(r.ReadBits(16)),
		amplitudeBits:   int(r.ReadBits(6)),
		amplitudeOffset: int(r.ReadBits(8)),
	}
	count := int(r.ReadBits(4)) + 1
	f.bookBits = codebook.ILog(uint32(count))
	for range count {
		n := int(r.ReadBits(8))
		if n >= len(books) {
			return nil, fmt.Errorf("%w: floor 0 book %d out of range", ErrInvalidSetup, n)
		}
		f.books = append(f.books, books[n])
	}
	switch {
	case r.IsShort():
		return nil, fmt.Errorf("%w: truncated floor 0", ErrInvalidSetup)
	case f.order < 1 || f.rate < 1 || f.barkMapSize < 1:
		return nil, fmt.Errorf("%w: floor 0 order %d, rate %d, bark map %d",
			ErrInvalidSetup, f.order, f.rate, f.barkMapSize)
	}

	f.barkMaps = map[int][]int{
		id.BlockSize0 / 2: f.barkMap(id.BlockSize0 / 2),
		id.BlockSize1 / 2: f.barkMap(id.BlockSize1 / 2),
	}
	return f, nil
}

func (f *floor0) Type() int { return 0 }

func bark(x float64) float64 {
	return 13.1*math.Atan(0.00074*x) + 2.24*math.Atan(0.0000000185*x*x) + 0.0001*x
}

func (f *floor0) barkMap(n int) []int {
	m := make([]int, n)
	scale := float64(f.barkMapSize) / bark(0.5*float64(f.rate))
	for i := range m {
		v := int(math.Floor(bark(float64(f.rate*i)/float64(2*n)) * scale))
		m[i] = min(f.barkMapSize-1, v)
	}
	return m
}

func (f *floor0) read(r PacketReader, d *floorData) bool {
	d.amplitude = int(r.ReadBits(f.amplitudeBits))
	if d.amplitude == 0 {
		return false
	}
	n := int(r.ReadBits(f.bookBits))
	if n >= len(f.books) {
		return false
	}
	book := f.books[n]

	d.coefficients = d.coefficients[:0]
	var last float32
	for len(d.coefficients) < f.order {
		vec := book.DecodeVector(r)
		if vec == nil {
			return false
		}
		for _, v := range vec {
			d.coefficients = append(d.coefficients, v+last)
		}
		last = d.coefficients[len(d.coefficients)-1]
	}
	return !r.IsShort()
}

func (f *floor0) apply(d *floorData, out []float32) {
	n := len(out)
	barkMap, ok := f.barkMaps[n]
	if !ok {
		barkMap = f.barkMap(n)
	}

	cosines := make([]float64, f.order)
	for j := range cosines {
		cosines[j] = math.Cos(float64(d.coefficients[j]))
	}
	scale := float64(d.amplitude*f.amplitudeOffset) / float64(int(1)<<f.amplitudeBits-1)

	for i := 0; i < n; {
		k := barkMap[i]
		w := math.Cos(math.Pi * float64(k) / float64(f.barkMapSize))

		var p, q float64
		if f.order%2 == 1 {
			p = 1 - w*w
			q = 0.25
		} else {
			p = (1 - w) / 2
			q = (1 + w) / 2
		}
		for j := 1; j < f.order; j += 2 {
			t := cosines[j] - w
			p *= 4 * t * t
		}
		for j := 0; j < f.order; j += 2 {
			t := cosines[j] - w
			q *= 4 * t * t
		}

		v := float32(math.Exp(0.11512925 * (scale/math.Sqrt(p+q) - float64(f.amplitudeOffset))))
		for ; i < n && barkMap[i] == k; i++ {
			out[i] *= v
		}
	}
}
