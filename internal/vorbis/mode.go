// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"math"
)

// Mode selects the block size and mapping of an audio packet.
type Mode struct {
	BlockFlag bool // long blocks
	Mapping   int

	mapping    *Mapping
	channels   int
	blockSize0 int
	blockSize1 int

	// windows holds one envelope for short modes, and four for long modes
	// indexed by prev + 2*next, where prev and next are the long-block flags
	// of the neighbouring blocks.
	windows [][]float32
}

func readMode(r PacketReader, id *Identification, mappings []*Mapping, cache windowCache) (*Mode, error) {
	m := &Mode{
		BlockFlag:  r.ReadBit(),
		channels:   id.Channels,
		blockSize0: id.BlockSize0,
		blockSize1: id.BlockSize1,
	}
	windowType := r.ReadBits(16)
	transformType := r.ReadBits(16)
	m.Mapping = int(r.ReadBits(8))

	switch {
	case windowType != 0 || transformType != 0:
		return nil, fmt.Errorf("%w: mode window type %d, transform type %d", ErrInvalidSetup, windowType, transformType)
	case m.Mapping >= len(mappings):
		return nil, fmt.Errorf("%w: mode mapping %d out of range", ErrInvalidSetup, m.Mapping)
	}
	m.mapping = mappings[m.Mapping]

	if m.BlockFlag {
		m.windows = make([][]float32, 4)
	} else {
		m.windows = make([][]float32, 1)
	}
	for idx := range m.windows {
		m.windows[idx] = cache.get(m.BlockSize(), m.halfSize(idx&1 != 0), m.halfSize(idx&2 != 0))
	}
	return m, nil
}

// BlockSize returns the number of samples in a block of this mode.
func (m *Mode) BlockSize() int {
	if m.BlockFlag {
		return m.blockSize1
	}
	return m.blockSize0
}

// halfSize returns half the size of a neighbouring block.
func (m *Mode) halfSize(long bool) int {
	if long {
		return m.blockSize1 / 2
	}
	return m.blockSize0 / 2
}

// Window returns the envelope for the given neighbour flags. Short modes
// have a single envelope.
func (m *Mode) Window(prev, next bool) []float32 {
	if !m.BlockFlag {
		return m.windows[0]
	}
	return m.windows[windowIndex(prev, next)]
}

func windowIndex(prev, next bool) int {
	idx := 0
	if prev {
		idx++
	}
	if next {
		idx += 2
	}
	return idx
}

// packetInfo is the sample layout of one decoded block.
type packetInfo struct {
	blockSize int
	window    int
	start     int // first sample finished by this block
	valid     int // end of the finished samples
	total     int // end of the samples that still overlap the next block
}

func (m *Mode) packetInfo(r PacketReader, isLastInPage bool) (packetInfo, bool) {
	var prev, next bool
	info := packetInfo{blockSize: m.BlockSize()}
	if m.BlockFlag {
		prev = r.ReadBit()
		next = r.ReadBit()
	}
	if r.IsShort() {
		return packetInfo{}, false
	}

	leftHalf := m.halfSize(prev) / 2
	rightHalf := m.halfSize(next) / 2
	info.window = windowIndex(prev, next)
	info.start = info.blockSize/4 - leftHalf
	info.total = info.blockSize/4*3 + rightHalf
	info.valid = info.total - rightHalf*2

	if isLastInPage && m.BlockFlag && !next {
		// Some libvorbis versions leave a long block followed by a short one
		// out of the granule position of the page the long block ends.
		info.valid -= m.blockSize1/4 - m.blockSize0/4
	}
	return info, true
}

// Decode reads the rest of an audio packet after the mode number, fills
// buffers with the windowed block, and returns its sample layout. It
// reports false for a truncated packet.
func (m *Mode) Decode(r PacketReader, b *Block, buffers [][]float32) (ok bool, start, valid, total int) {
	info, ok := m.packetInfo(r, false)
	if !ok {
		return false, 0, 0, 0
	}

	m.mapping.decode(r, b, info.blockSize, buffers)

	window := m.windows[info.window]
	for ch := range m.channels {
		buf := buffers[ch][:info.blockSize]
		for i, w := range window {
			buf[i] *= w
		}
	}
	return true, info.start, info.valid, info.total
}

// SampleCount returns the number of samples a packet of this mode adds to
// the stream. isLastInPage applies the long-to-short page boundary
// correction. The packet must be positioned after the mode number.
func (m *Mode) SampleCount(r PacketReader, isLastInPage bool) int {
	info, ok := m.packetInfo(r, isLastInPage)
	if !ok {
		return 0
	}
	return info.valid - info.start
}

// windowCache shares envelopes between modes with the same shape.
type windowCache map[[3]int][]float32

func (c windowCache) get(n, left, right int) []float32 {
	key := [3]int{n, left, right}
	if w, ok := c[key]; ok {
		return w
	}
	w := makeWindow(n, left, right)
	c[key] = w
	return w
}

// makeWindow builds a block envelope of n samples whose rising and falling
// slopes are left and right samples long. Samples outside the slopes and
// the flat middle are zero.
func makeWindow(n, left, right int) []float32 {
	w := make([]float32, n)
	leftBegin := n/4 - left/2
	rightBegin := n - n/4 - right/2

	for i := range left {
		w[leftBegin+i] = slope(float64(i)+0.5, float64(left))
	}
	for i := leftBegin + left; i < rightBegin; i++ {
		w[i] = 1
	}
	for i := range right {
		w[rightBegin+i] = slope(float64(right-i)-0.5, float64(right))
	}
	return w
}

func slope(x, width float64) float32 {
	s := math.Sin(x / width * math.Pi / 2)
	return float32(math.Sin(s * s * math.Pi / 2))
}
