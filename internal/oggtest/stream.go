// SPDX-License-Identifier: EPL-2.0

// Package oggtest builds Ogg and Vorbis test data.
package oggtest

import (
	"github.com/ik5/oggdec/container/ogg"
)

// StreamPage lists the packets completed on one page and the granule
// position the page carries.
type StreamPage struct {
	Packets [][]byte
	Granule int64
}

// Paginate encodes the pages of one logical stream. The first page is
// flagged as beginning the stream and the last as ending it. Packets never
// span pages.
func Paginate(serial uint32, pages []StreamPage) []byte {
	var out []byte
	for i, sp := range pages {
		p := &ogg.Page{
			GranulePos: sp.Granule,
			Serial:     serial,
			Sequence:   uint32(i),
		}
		if i == 0 {
			p.Flags |= ogg.FlagFirst
		}
		if i == len(pages)-1 {
			p.Flags |= ogg.FlagLast
		}
		for _, pkt := range sp.Packets {
			p.Segments = append(p.Segments, ogg.SegmentTable(len(pkt))...)
			p.Payload = append(p.Payload, pkt...)
		}
		out = append(out, p.Encode()...)
	}
	return out
}

// VorbisStream encodes a complete Vorbis stream: the identification and
// comment headers on the first page, the setup on the second, and the
// audio pages after them.
func VorbisStream(serial uint32, id, comment, setup []byte, audio []StreamPage) []byte {
	pages := append([]StreamPage{
		{Packets: [][]byte{id}},
		{Packets: [][]byte{comment, setup}},
	}, audio...)
	return Paginate(serial, pages)
}
