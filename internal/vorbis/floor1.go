// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"math"
	"slices"

	"github.com/ik5/oggdec/internal/codebook"
)

const floor1MaxValues = 65

// floor1 is the piecewise linear floor.
type floor1 struct {
	partitionClass []int
	classDims      []int
	classBits      []int
	classBook      []*codebook.Codebook
	subclassBooks  [][]*codebook.Codebook // nil entries read as zero

	multiplier int
	rng        int
	yBits      int
	xs         []int
	sorted     []int // value indices in ascending x order
	low, high  []int // neighbours of each value, from index 2 on
}

var rangeForMultiplier = [4]int{256, 128, 86, 64}

// inverseDB maps floor1 amplitudes to linear gain, from about -140 dB to 0.
var inverseDB = func() (t [256]float32) {
	for i := range t {
		t[i] = float32(math.Pow(1.0649863e-07, float64(255-i)/255))
	}
	return t
}()

func readFloor1(r PacketReader, books []*codebook.Codebook) (*floor1, error) {
	f := &floor1{}
	book := func(n int) (*codebook.Codebook, error) {
		if n >= len(books) {
			return nil, fmt.Errorf("%w: floor 1 book %d out of range", ErrInvalidSetup, n)
		}
		return books[n], nil
	}

	partitions := int(r.ReadBits(5))
	maxClass := -1
	for range partitions {
		c := int(r.ReadBits(4))
		f.partitionClass = append(f.partitionClass, c)
		maxClass = max(maxClass, c)
	}

	classes := maxClass + 1
	f.classDims = make([]int, classes)
	f.classBits = make([]int, classes)
	f.classBook = make([]*codebook.Codebook, classes)
	f.subclassBooks = make([][]*codebook.Codebook, classes)
	for c := range classes {
		f.classDims[c] = int(r.ReadBits(3)) + 1
		f.classBits[c] = int(r.ReadBits(2))
		if f.classBits[c] > 0 {
			b, err := book(int(r.ReadBits(8)))
			if err != nil {
				return nil, err
			}
			f.classBook[c] = b
		}
		f.subclassBooks[c] = make([]*codebook.Codebook, 1<<f.classBits[c])
		for j := range f.subclassBooks[c] {
			n := int(r.ReadBits(8)) - 1
			if n < 0 {
				continue
			}
			b, err := book(n)
			if err != nil {
				return nil, err
			}
			f.subclassBooks[c][j] = b
		}
	}

	f.multiplier = int(r.ReadBits(2)) + 1
	f.rng = rangeForMultiplier[f.multiplier-1]
	f.yBits = codebook.ILog(uint32(f.rng - 1))

	rangeBits := int(r.ReadBits(4))
	f.xs = []int{0, 1 << rangeBits}
	for _, c := range f.partitionClass {
		for range f.classDims[c] {
			f.xs = append(f.xs, int(r.ReadBits(rangeBits)))
		}
	}
	if r.IsShort() {
		return nil, fmt.Errorf("%w: truncated floor 1", ErrInvalidSetup)
	}
	if len(f.xs) > floor1MaxValues {
		return nil, fmt.Errorf("%w: floor 1 has %d values", ErrInvalidSetup, len(f.xs))
	}

	f.sorted = make([]int, len(f.xs))
	for i := range f.sorted {
		f.sorted[i] = i
	}
	slices.SortStableFunc(f.sorted, func(a, b int) int { return f.xs[a] - f.xs[b] })
	for i := 1; i < len(f.sorted); i++ {
		if f.xs[f.sorted[i]] == f.xs[f.sorted[i-1]] {
			return nil, fmt.Errorf("%w: floor 1 repeats x %d", ErrInvalidSetup, f.xs[f.sorted[i]])
		}
	}

	f.low = make([]int, len(f.xs))
	f.high = make([]int, len(f.xs))
	for i := 2; i < len(f.xs); i++ {
		f.low[i], f.high[i] = neighbours(f.xs, i)
	}
	return f, nil
}

// neighbours returns the indices below i whose x values are the closest
// lower and closest higher than xs[i].
func neighbours(xs []int, i int) (low, high int) {
	lowX, highX := -1, math.MaxInt
	for j := range i {
		x := xs[j]
		if x < xs[i] && x > lowX {
			low, lowX = j, x
		}
		if x > xs[i] && x < highX {
			high, highX = j, x
		}
	}
	return low, high
}

func (f *floor1) Type() int { return 1 }

func (f *floor1) read(r PacketReader, d *floorData) bool {
	if !r.ReadBit() {
		return false
	}

	n := len(f.xs)
	if cap(d.y) < n {
		d.y = make([]int, n)
	}
	y := d.y[:n]
	y[0] = int(r.ReadBits(f.yBits))
	y[1] = int(r.ReadBits(f.yBits))

	offset := 2
	for _, c := range f.partitionClass {
		dims, bits := f.classDims[c], f.classBits[c]
		mask := 1<<bits - 1
		cval := 0
		if bits > 0 {
			cval = f.classBook[c].DecodeScalar(r)
			if cval < 0 {
				return false
			}
		}
		for j := range dims {
			y[offset+j] = 0
			if book := f.subclassBooks[c][cval&mask]; book != nil {
				v := book.DecodeScalar(r)
				if v < 0 {
					return false
				}
				y[offset+j] = v
			}
			cval >>= bits
		}
		offset += dims
	}
	d.y = y
	return !r.IsShort()
}

// synthesize turns the decoded amplitudes into final Y values and marks
// the points that take part in the curve.
func (f *floor1) synthesize(d *floorData) {
	n := len(f.xs)
	if cap(d.final) < n {
		d.final = make([]int, n)
		d.step2 = make([]bool, n)
	}
	final, step2 := d.final[:n], d.step2[:n]
	y := d.y[:n]

	final[0], final[1] = y[0], y[1]
	step2[0], step2[1] = true, true
	for i := 2; i < n; i++ {
		low, high := f.low[i], f.high[i]
		predicted := renderPoint(f.xs[low], final[low], f.xs[high], final[high], f.xs[i])
		val := y[i]
		highRoom := f.rng - predicted
		lowRoom := predicted
		room := min(highRoom, lowRoom) * 2

		if val == 0 {
			step2[i] = false
			final[i] = predicted
			continue
		}
		step2[low], step2[high], step2[i] = true, true, true
		switch {
		case val >= room && highRoom > lowRoom:
			final[i] = val - lowRoom + predicted
		case val >= room:
			final[i] = predicted - val + highRoom - 1
		case val%2 == 1:
			final[i] = predicted - (val+1)/2
		default:
			final[i] = predicted + val/2
		}
	}
	d.final, d.step2 = final, step2
}

func (f *floor1) apply(d *floorData, out []float32) {
	f.synthesize(d)

	n := len(out)
	lx, ly := 0, d.final[0]*f.multiplier
	hx, hy := 0, 0
	for _, i := range f.sorted[1:] {
		if !d.step2[i] {
			continue
		}
		hx, hy = f.xs[i], d.final[i]*f.multiplier
		renderLine(lx, ly, hx, hy, out)
		lx, ly = hx, hy
	}
	if hx < n {
		renderLine(hx, hy, n, hy, out)
	}
}

func renderPoint(x0, y0, x1, y1, x int) int {
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	off := ady * (x - x0) / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// renderLine multiplies out[x0:x1] by the line from (x0, y0) to (x1, y1)
// in the inverse dB domain. Points past the end of out are dropped.
func renderLine(x0, y0, x1, y1 int, out []float32) {
	dy := y1 - y0
	adx := x1 - x0
	if adx <= 0 {
		return
	}
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	base := dy / adx
	sy := base + 1
	if dy < 0 {
		sy = base - 1
	}
	if base < 0 {
		ady -= -base * adx
	} else {
		ady -= base * adx
	}

	y, errAcc := y0, 0
	end := min(x1, len(out))
	for x := x0; x < end; x++ {
		if x > x0 {
			errAcc += ady
			if errAcc >= adx {
				errAcc -= adx
				y += sy
			} else {
				y += base
			}
		}
		out[x] *= inverseDB[min(max(y, 0), 255)]
	}
}
