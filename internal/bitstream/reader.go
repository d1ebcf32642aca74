// SPDX-License-Identifier: EPL-2.0

// Package bitstream reads and writes the LSB-first bit packing used by
// Vorbis packets.
//
// Bits are consumed from the least significant bit of each byte upwards, and
// multi-bit values are assembled least significant bit first. Reading past
// the end of the underlying data never fails: the missing bits read as zero
// and the reader is flagged as short, which is how a truncated packet is
// detected by the codec.
package bitstream

import "io"

// Reader reads bit fields from an io.ByteReader.
type Reader struct {
	src   io.ByteReader
	acc   uint64 // buffered bits, next bit at position 0
	n     uint   // number of valid bits in acc
	read  int64  // bits consumed so far
	short bool
	err   error
}

// NewReader returns a Reader pulling bytes from src.
func NewReader(src io.ByteReader) *Reader {
	return &Reader{src: src}
}

// Reset rewinds the bit cursor state and switches to src.
// The caller is responsible for rewinding src itself.
func (r *Reader) Reset(src io.ByteReader) {
	*r = Reader{src: src}
}

// fill loads whole bytes until at least count bits are buffered or the
// source is exhausted.
func (r *Reader) fill(count uint) {
	for r.n < count && r.n <= 56 {
		if r.src == nil {
			return
		}
		b, err := r.src.ReadByte()
		if err != nil {
			if err != io.EOF && r.err == nil {
				r.err = err
			}
			return
		}
		r.acc |= uint64(b) << r.n
		r.n += 8
	}
}

// ReadBits consumes count bits (0..32) and returns them as an unsigned
// value. When fewer bits remain the available ones are returned, zero
// extended, and the reader is marked short.
func (r *Reader) ReadBits(count int) uint32 {
	if count <= 0 {
		return 0
	}
	if count > 32 {
		count = 32
	}
	c := uint(count)
	r.fill(c)
	if r.n < c {
		v := uint32(r.acc)
		r.read += int64(r.n)
		r.acc, r.n = 0, 0
		r.short = true
		return v
	}
	v := uint32(r.acc & (1<<c - 1))
	r.acc >>= c
	r.n -= c
	r.read += int64(c)
	return v
}

// ReadBit consumes a single bit.
func (r *Reader) ReadBit() bool {
	return r.ReadBits(1) == 1
}

// PeekBits returns up to count bits (0..32) without consuming them, along
// with the number of bits that were actually available.
func (r *Reader) PeekBits(count int) (uint32, int) {
	if count <= 0 {
		return 0, 0
	}
	if count > 32 {
		count = 32
	}
	r.fill(uint(count))
	avail := min(uint(count), r.n)
	return uint32(r.acc & (1<<avail - 1)), int(avail)
}

// SkipBits consumes count bits previously inspected with PeekBits.
func (r *Reader) SkipBits(count int) {
	if count <= 0 {
		return
	}
	c := uint(count)
	r.fill(c)
	if r.n < c {
		r.read += int64(r.n)
		r.acc, r.n = 0, 0
		r.short = true
		return
	}
	r.acc >>= c
	r.n -= c
	r.read += int64(c)
}

// MarkShort flags the reader as having run out of data.
func (r *Reader) MarkShort() { r.short = true }

// IsShort reports whether a read went past the end of the data.
func (r *Reader) IsShort() bool { return r.short }

// BitsRead returns the number of bits consumed since the last Reset.
func (r *Reader) BitsRead() int64 { return r.read }

// Err returns the first non-EOF error reported by the byte source.
func (r *Reader) Err() error { return r.err }
