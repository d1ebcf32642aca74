// SPDX-License-Identifier: EPL-2.0

package bitstream

// Writer packs bit fields LSB-first into a byte slice.
// It mirrors Reader and is used to build packets and headers.
type Writer struct {
	buf []byte
	acc uint64
	n   uint
}

// WriteBits appends the low count bits (0..32) of v.
func (w *Writer) WriteBits(v uint32, count int) {
	if count <= 0 {
		return
	}
	if count > 32 {
		count = 32
	}
	c := uint(count)
	w.acc |= uint64(v&uint32(1<<c-1)) << w.n
	w.n += c
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	if b {
		w.WriteBits(1, 1)
		return
	}
	w.WriteBits(0, 1)
}

// WriteBytes appends whole bytes, eight bits each.
func (w *Writer) WriteBytes(p []byte) {
	for _, b := range p {
		w.WriteBits(uint32(b), 8)
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int { return len(w.buf)*8 + int(w.n) }

// Bytes returns the packed data; a trailing partial byte is zero padded.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf), len(w.buf)+1)
	copy(out, w.buf)
	if w.n > 0 {
		out = append(out, byte(w.acc))
	}
	return out
}
