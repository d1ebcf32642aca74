// SPDX-License-Identifier: EPL-2.0

package ogg

import "bytes"

// testPage builds a page holding complete packets.
func testPage(flags byte, serial, seq uint32, granule int64, packets ...[]byte) *Page {
	p := &Page{Flags: flags, Serial: serial, Sequence: seq, GranulePos: granule}
	for _, pkt := range packets {
		p.Segments = append(p.Segments, SegmentTable(len(pkt))...)
		p.Payload = append(p.Payload, pkt...)
	}
	return p
}

// withTail appends the first part of a packet that continues on the next
// page. tail must be a multiple of 255 bytes long.
func withTail(p *Page, tail []byte) *Page {
	if len(tail)%255 != 0 {
		panic("tail must be a multiple of 255 bytes")
	}
	p.Segments = append(p.Segments, bytes.Repeat([]byte{255}, len(tail)/255)...)
	p.Payload = append(p.Payload, tail...)
	return p
}

func fill(n int, b byte) []byte { return bytes.Repeat([]byte{b}, n) }

func concat(pages ...*Page) []byte {
	var out []byte
	for _, p := range pages {
		out = append(out, p.Encode()...)
	}
	return out
}

// recorder is a PageHandler that stores every page it accepts.
type recorder struct {
	reject  func(*Page) bool
	pages   []*Page
	resyncs []bool
	ended   int
}

func (r *recorder) AddPage(p *Page, resync bool) bool {
	if r.reject != nil && r.reject(p) {
		return false
	}
	r.pages = append(r.pages, p)
	r.resyncs = append(r.resyncs, resync)
	return true
}

func (r *recorder) SetEndOfStreams() { r.ended++ }

func (r *recorder) sequences() []uint32 {
	var out []uint32
	for _, p := range r.pages {
		out = append(out, p.Sequence)
	}
	return out
}

func seqs(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
