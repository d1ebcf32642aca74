// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"io"

	"github.com/ik5/oggdec/internal/bitstream"
)

// fragment is the part of a packet carried by one page.
type fragment struct {
	pageOffset int64
	start      int // offset in the page payload
	length     int
	data       []byte // nil until loaded
}

type dataLoader interface {
	packetData(pageOffset int64, start, length int) ([]byte, error)
}

// fragmentReader walks the fragments of a packet byte by byte.
type fragmentReader struct {
	frags  []fragment
	loader dataLoader
	frag   int
	pos    int
}

func (f *fragmentReader) ReadByte() (byte, error) {
	for f.frag < len(f.frags) {
		fr := &f.frags[f.frag]
		if f.pos < fr.length {
			if fr.data == nil {
				data, err := f.loader.packetData(fr.pageOffset, fr.start, fr.length)
				if err != nil {
					return 0, err
				}
				fr.data = data
			}
			b := fr.data[f.pos]
			f.pos++
			return b, nil
		}
		f.frag++
		f.pos = 0
	}
	return 0, io.EOF
}

// Packet is one logical packet of a stream. It embeds a bit reader
// positioned at the start of the packet data; Reset rewinds it.
type Packet struct {
	bitstream.Reader

	body   fragmentReader
	length int

	// PageGranulePosition is the granule position of the page the packet
	// completes on.
	PageGranulePosition int64

	// GranulePosition is PageGranulePosition when the packet is the last
	// one completed on its page, and -1 otherwise.
	GranulePosition int64

	// Sequence is the sequence number of the page the packet completes on.
	Sequence uint32

	IsContinued    bool // the packet is not complete yet
	IsContinuation bool // the packet started on an earlier page
	IsResync       bool // data was skipped right before the packet
	IsEndOfStream  bool // last packet of the stream
	IsEndOfPage    bool // last packet completed on its page
}

func newPacket(f fragment, loader dataLoader) *Packet {
	p := &Packet{
		body:            fragmentReader{frags: []fragment{f}, loader: loader},
		length:          f.length,
		GranulePosition: -1,
	}
	p.Reader.Reset(&p.body)
	return p
}

// Length returns the packet size in bytes.
func (p *Packet) Length() int { return p.length }

// Reset rewinds the bit reader to the start of the packet.
func (p *Packet) Reset() {
	p.body.frag, p.body.pos = 0, 0
	p.Reader.Reset(&p.body)
}

// Bytes returns a copy of the whole packet. The read position is not
// changed.
func (p *Packet) Bytes() ([]byte, error) {
	out := make([]byte, 0, p.length)
	for i := range p.body.frags {
		fr := &p.body.frags[i]
		if fr.data == nil && fr.length > 0 {
			data, err := p.body.loader.packetData(fr.pageOffset, fr.start, fr.length)
			if err != nil {
				return nil, err
			}
			fr.data = data
		}
		out = append(out, fr.data[:fr.length]...)
	}
	return out, nil
}

// mergeWith appends the continuation fragment of the next page. The
// packet takes over the position information of the continuation.
func (p *Packet) mergeWith(next *Packet) {
	p.length += next.length
	p.body.frags = append(p.body.frags, next.body.frags...)
	p.Reader.Reset(&p.body)

	p.PageGranulePosition = next.PageGranulePosition
	p.GranulePosition = next.GranulePosition
	p.Sequence = next.Sequence
	p.IsContinued = next.IsContinued
	p.IsEndOfStream = next.IsEndOfStream
	p.IsEndOfPage = next.IsEndOfPage
	p.IsContinuation = true
}
