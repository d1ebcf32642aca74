// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"slices"
	"testing"

	"github.com/ik5/oggdec/internal/bitstream"
	"github.com/ik5/oggdec/internal/codebook"
	"github.com/ik5/oggdec/internal/oggtest"
)

func testResidue(t *testing.T, channels, kind, end int) *Residue {
	t.Helper()
	_, s := testHeaders(t, oggtest.VorbisSetup{Channels: channels, ResidueType: kind, ResidueEnd: end}, 6, 8)
	return s.Residues[0]
}

// residueBits encodes parts partitions for each vector, four VQ entries
// per partition and vector.
func residueBits(parts int, entries ...[]int) []byte {
	var w bitstream.Writer
	for p := range parts {
		for range entries {
			oggtest.ClassBook.Encode(&w, 0)
		}
		for _, e := range entries {
			for _, entry := range e[p*4 : p*4+4] {
				oggtest.VQBook.Encode(&w, entry)
			}
		}
	}
	return w.Bytes()
}

// sequential lays out the values of entries one after the other.
func sequential(entries []int) []float32 {
	var out []float32
	for _, e := range entries {
		a, b := oggtest.VQValues(e)
		out = append(out, a, b)
	}
	return out
}

// interleaved lays out each partition of four entries with stride four.
func interleaved(entries []int) []float32 {
	out := make([]float32, len(entries)*2)
	for p := 0; p < len(entries); p += 4 {
		for i, e := range entries[p : p+4] {
			a, b := oggtest.VQValues(e)
			out[p*2+i] = a
			out[p*2+i+4] = b
		}
	}
	return out
}

func TestResidue_Types(t *testing.T) {
	t.Parallel()

	e0 := []int{0, 1, 2, 3, 3, 2, 1, 0}
	e1 := []int{1, 1, 2, 2, 0, 3, 0, 3}

	t.Run("type 0", func(t *testing.T) {
		t.Parallel()

		res := testResidue(t, 1, 0, 16)
		buf := make([]float32, 32)
		res.Decode(reader(residueBits(2, e0)), []bool{false}, 64, [][]float32{buf})

		want := append(interleaved(e0), make([]float32, 16)...)
		if !slices.Equal(buf, want) {
			t.Errorf("residue = %v, want %v", buf, want)
		}
	})

	t.Run("type 1", func(t *testing.T) {
		t.Parallel()

		res := testResidue(t, 2, 1, 16)
		bufs := [][]float32{make([]float32, 32), make([]float32, 32)}
		res.Decode(reader(residueBits(2, e0, e1)), []bool{false, false}, 64, bufs)

		for ch, e := range [][]int{e0, e1} {
			want := append(sequential(e), make([]float32, 16)...)
			if !slices.Equal(bufs[ch], want) {
				t.Errorf("channel %d residue = %v, want %v", ch, bufs[ch], want)
			}
		}
	})

	t.Run("type 2", func(t *testing.T) {
		t.Parallel()

		res := testResidue(t, 2, 2, 16)
		bufs := [][]float32{make([]float32, 32), make([]float32, 32)}
		res.Decode(reader(residueBits(2, e0)), []bool{false, true}, 64, bufs)

		v := sequential(e0)
		for ch := range bufs {
			for i, got := range bufs[ch] {
				var want float32
				if i < 8 {
					want = v[2*i+ch]
				}
				if got != want {
					t.Errorf("channel %d residue[%d] = %v, want %v", ch, i, got, want)
				}
			}
		}
	})
}

func TestResidue_AddsToBuffers(t *testing.T) {
	t.Parallel()

	res := testResidue(t, 1, 1, 8)
	buf := ones(32)
	res.Decode(reader(residueBits(1, []int{3, 3, 3, 3})), []bool{false}, 64, [][]float32{buf})
	for i, v := range buf {
		want := float32(1)
		if i < 8 {
			want = 2
		}
		if v != want {
			t.Fatalf("residue[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestResidue_SkipsUndecodedChannels(t *testing.T) {
	t.Parallel()

	e := []int{3, 3, 3, 3, 0, 0, 0, 0}

	res := testResidue(t, 2, 1, 16)
	bufs := [][]float32{make([]float32, 32), make([]float32, 32)}
	res.Decode(reader(residueBits(2, e)), []bool{true, false}, 64, bufs)

	if !slices.Equal(bufs[0], make([]float32, 32)) {
		t.Errorf("skipped channel was written: %v", bufs[0])
	}
	if want := append(sequential(e), make([]float32, 16)...); !slices.Equal(bufs[1], want) {
		t.Errorf("decoded channel = %v, want %v", bufs[1], want)
	}

	res = testResidue(t, 2, 2, 16)
	r := reader(nil)
	res.Decode(r, []bool{true, true}, 64, bufs)
	if r.BitsRead() != 0 {
		t.Errorf("type 2 with no decoded channel read %d bits", r.BitsRead())
	}
}

func TestResidue_StopsAtEndOfPacket(t *testing.T) {
	t.Parallel()

	e := []int{3, 3, 3, 3, 3, 3, 3, 3}
	data := residueBits(2, e)

	res := testResidue(t, 1, 1, 16)
	buf := make([]float32, 32)
	// One byte holds the class word and three of the four entries.
	r := reader(data[:1])
	res.Decode(r, []bool{false}, 64, [][]float32{buf})

	if !r.IsShort() {
		t.Error("reader not short after a truncated residue")
	}
	if !slices.Equal(buf[:6], sequential(e[:3])) {
		t.Errorf("residue = %v, want the first three entries", buf[:6])
	}
	for i := 6; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("residue[%d] = %v past the truncation", i, buf[i])
		}
	}
}

func TestResidue_RangeClampedToBlock(t *testing.T) {
	t.Parallel()

	// End lies past the 32 values of a short block.
	res := testResidue(t, 1, 1, 1000)
	e := make([]int, 16)
	for i := range e {
		e[i] = 3
	}
	buf := make([]float32, 32)
	r := reader(residueBits(4, e))
	res.Decode(r, []bool{false}, 64, [][]float32{buf})
	if !slices.Equal(buf, sequential(e)) {
		t.Errorf("residue = %v", buf)
	}
	if r.IsShort() {
		t.Error("decoder read past the clamped range")
	}
}

var (
	// pairBook is a two-dimensional class book with four entries.
	pairBook = oggtest.Book{Dimensions: 2, Lengths: []int{2, 2, 2, 2}}

	// tensBook maps entry 0 to 10 and entry 1 to 20.
	tensBook = oggtest.Book{
		Dimensions:    1,
		Lengths:       []int{1, 1},
		MapType:       1,
		Min:           10,
		Delta:         10,
		ValueBits:     1,
		Multiplicands: []uint32{0, 1},
	}
)

func readBooks(t *testing.T, books ...oggtest.Book) []*codebook.Codebook {
	t.Helper()

	out := make([]*codebook.Codebook, len(books))
	for i, b := range books {
		var w bitstream.Writer
		b.Write(&w)
		c, err := codebook.Read(reader(w.Bytes()))
		if err != nil {
			t.Fatalf("codebook.Read(%d) error = %v", i, err)
		}
		out[i] = c
	}
	return out
}

// residueHeader encodes a residue definition. stageBooks lists the book of
// every set cascade bit, class by class, lowest stage first.
func residueHeader(kind, begin, end, partitionSize, classbook int, cascade, stageBooks []int) []byte {
	var w bitstream.Writer
	w.WriteBits(uint32(kind), 16)
	w.WriteBits(uint32(begin), 24)
	w.WriteBits(uint32(end), 24)
	w.WriteBits(uint32(partitionSize-1), 24)
	w.WriteBits(uint32(len(cascade)-1), 6)
	w.WriteBits(uint32(classbook), 8)
	for _, c := range cascade {
		w.WriteBits(uint32(c&7), 3)
		w.WriteBit(c > 7)
		if c > 7 {
			w.WriteBits(uint32(c>>3), 5)
		}
	}
	for _, b := range stageBooks {
		w.WriteBits(uint32(b), 8)
	}
	return w.Bytes()
}

// cascadeResidue has two classifications over a pair class book, so one
// class word covers two partitions. Class 0 only has stage 0, class 1 adds
// a second stage from tensBook. The range starts at 8.
func cascadeResidue(t *testing.T, kind int) *Residue {
	t.Helper()

	books := readBooks(t, pairBook, oggtest.VQBook, tensBook)
	res, err := readResidue(reader(residueHeader(kind, 8, 40, 8, 0, []int{0b01, 0b11}, []int{1, 1, 2})), books)
	if err != nil {
		t.Fatalf("readResidue() error = %v", err)
	}
	return res
}

// Partitions 0..3 of cascadeResidue use classes 1, 0, 0, 1: words 2 and 1,
// first partition in the high digit.
var (
	cascadeWords = []int{2, 1}
	cascadeVQ    = [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 1, 1, 1}, {2, 2, 2, 2}}
	cascadeTens  = map[int][]int{
		0: {0, 1, 0, 1, 0, 1, 0, 1},
		3: {1, 1, 1, 1, 1, 1, 1, 1},
	}
)

func cascadeBits() []byte {
	var w bitstream.Writer
	for p, vq := range cascadeVQ {
		if p%2 == 0 {
			pairBook.Encode(&w, cascadeWords[p/2])
		}
		for _, e := range vq {
			oggtest.VQBook.Encode(&w, e)
		}
	}
	for _, p := range []int{0, 3} {
		for _, e := range cascadeTens[p] {
			tensBook.Encode(&w, e)
		}
	}
	return w.Bytes()
}

func cascadeWant() []float32 {
	want := make([]float32, 64)
	for p, vq := range cascadeVQ {
		part := want[8+p*8 : 16+p*8]
		copy(part, sequential(vq))
		for i, e := range cascadeTens[p] {
			part[i] += float32(10 + 10*e)
		}
	}
	return want
}

func TestResidue_Cascade(t *testing.T) {
	t.Parallel()

	res := cascadeResidue(t, 1)
	if res.maxStages != 2 {
		t.Fatalf("maxStages = %d, want 2", res.maxStages)
	}

	buf := make([]float32, 64)
	r := reader(cascadeBits())
	res.Decode(r, []bool{false}, 128, [][]float32{buf})

	if r.IsShort() {
		t.Error("reader short after a complete residue")
	}
	if want := cascadeWant(); !slices.Equal(buf, want) {
		t.Errorf("residue = %v, want %v", buf, want)
	}
}

func TestResidue_DecodeMap(t *testing.T) {
	t.Parallel()

	wide := oggtest.Book{Dimensions: 2, Lengths: slices.Repeat([]int{4}, 16)}
	books := readBooks(t, wide)

	res, err := readResidue(reader(residueHeader(1, 0, 16, 8, 0, []int{0, 0, 0}, nil)), books)
	if err != nil {
		t.Fatalf("readResidue() error = %v", err)
	}
	if len(res.decodeMap) != 9 {
		t.Fatalf("len(decodeMap) = %d, want 9", len(res.decodeMap))
	}
	for word, want := range map[int][]int{0: {0, 0}, 2: {0, 2}, 5: {1, 2}, 7: {2, 1}} {
		if got := res.decodeMap[word]; !slices.Equal(got, want) {
			t.Errorf("decodeMap[%d] = %v, want %v", word, got, want)
		}
	}

	// 5*5 classification words do not fit in 16 entries.
	_, err = readResidue(reader(residueHeader(1, 0, 16, 8, 0, []int{0, 0, 0, 0, 0}, nil)), books)
	if !errors.Is(err, ErrInvalidSetup) {
		t.Errorf("readResidue() error = %v, want %v", err, ErrInvalidSetup)
	}
}

func TestResidue_Deterministic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     int
		channels int
	}{
		{"type 0", 0, 1},
		{"type 1", 1, 1},
		{"type 2", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := cascadeResidue(t, tt.kind)
			data := cascadeBits()
			decode := func() [][]float32 {
				bufs := make([][]float32, tt.channels)
				skip := make([]bool, tt.channels)
				for ch := range bufs {
					bufs[ch] = make([]float32, 64)
				}
				res.Decode(reader(data), skip, 128, bufs)
				return bufs
			}

			first, second := decode(), decode()
			for ch := range first {
				if !slices.Equal(first[ch], second[ch]) {
					t.Errorf("channel %d differs between runs: %v, %v", ch, first[ch], second[ch])
				}
			}
		})
	}
}
