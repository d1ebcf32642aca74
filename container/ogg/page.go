// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Page header flags.
const (
	// FlagContinued marks a page whose first packet began on an earlier page.
	FlagContinued = 0x01

	// FlagFirst marks the first page of a logical stream (BOS).
	FlagFirst = 0x02

	// FlagLast marks the last page of a logical stream (EOS).
	FlagLast = 0x04
)

const (
	headerSize     = 27
	maxSegments    = 255
	maxSegmentSize = 255

	// maxHeaderSize is the header scan window: a capture pattern found at
	// the end of one 27-byte window plus a full header with 255 segments.
	maxHeaderSize = headerSize - 4 + headerSize + maxSegments
)

var capturePattern = []byte("OggS")

// Page is one Ogg page.
type Page struct {
	Version    byte
	Flags      byte
	GranulePos int64 // -1 when no packet completes on the page
	Serial     uint32
	Sequence   uint32
	CRC        uint32
	Segments   []byte
	Payload    []byte

	// Offset is the position of the capture pattern in the input.
	Offset int64
}

// IsContinued reports whether the first packet on the page began on an
// earlier page.
func (p *Page) IsContinued() bool { return p.Flags&FlagContinued != 0 }

// IsFirst reports whether the page starts a logical stream.
func (p *Page) IsFirst() bool { return p.Flags&FlagFirst != 0 }

// IsLast reports whether the page ends a logical stream.
func (p *Page) IsLast() bool { return p.Flags&FlagLast != 0 }

// Len returns the encoded size of the page in bytes.
func (p *Page) Len() int { return headerSize + len(p.Segments) + len(p.Payload) }

// PacketLengths splits the segment table into packet lengths. When the
// table ends with a 255 segment the last length belongs to a packet that
// continues on the next page, and continues is true.
func (p *Page) PacketLengths() (lengths []int, continues bool) {
	current := 0
	for _, seg := range p.Segments {
		current += int(seg)
		if seg < maxSegmentSize {
			lengths = append(lengths, current)
			current = 0
		}
	}
	if n := len(p.Segments); n > 0 && p.Segments[n-1] == maxSegmentSize {
		lengths = append(lengths, current)
		continues = true
	}
	return lengths, continues
}

// Encode serializes the page and fills in its checksum. The CRC field of
// p is ignored.
func (p *Page) Encode() []byte {
	hdr := headerSize + len(p.Segments)
	data := make([]byte, hdr+len(p.Payload))

	copy(data, capturePattern)
	data[4] = p.Version
	data[5] = p.Flags
	binary.LittleEndian.PutUint64(data[6:14], uint64(p.GranulePos))
	binary.LittleEndian.PutUint32(data[14:18], p.Serial)
	binary.LittleEndian.PutUint32(data[18:22], p.Sequence)
	data[26] = byte(len(p.Segments))
	copy(data[headerSize:], p.Segments)
	copy(data[hdr:], p.Payload)

	binary.LittleEndian.PutUint32(data[22:26], Checksum(data))
	return data
}

// SegmentTable returns the lacing values for one packet of n bytes.
func SegmentTable(n int) []byte {
	segs := bytes.Repeat([]byte{maxSegmentSize}, n/maxSegmentSize)
	return append(segs, byte(n%maxSegmentSize))
}

// parseHeader decodes the fixed header and segment table in hdr.
func parseHeader(hdr []byte) *Page {
	return &Page{
		Version:    hdr[4],
		Flags:      hdr[5],
		GranulePos: int64(binary.LittleEndian.Uint64(hdr[6:14])),
		Serial:     binary.LittleEndian.Uint32(hdr[14:18]),
		Sequence:   binary.LittleEndian.Uint32(hdr[18:22]),
		CRC:        binary.LittleEndian.Uint32(hdr[22:26]),
		Segments:   bytes.Clone(hdr[headerSize:]),
	}
}

func payloadSize(segments []byte) int {
	n := 0
	for _, s := range segments {
		n += int(s)
	}
	return n
}

// pageChecksum computes the checksum of a page with its CRC field zeroed.
func pageChecksum(hdr, payload []byte) uint32 {
	var c CRC
	_, _ = c.Write(hdr[:22])
	for range 4 {
		c.UpdateByte(0)
	}
	_, _ = c.Write(hdr[26:])
	_, _ = c.Write(payload)
	return c.Sum32()
}

// ParsePage decodes the page at the start of data and returns it with the
// number of bytes it occupies.
func ParsePage(data []byte) (*Page, int, error) {
	p, err := ReadPage(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	return p, p.Len(), nil
}

// ReadPage reads one page that must start at the current position of r.
// A short page is reported as ErrInvalidPage and a checksum failure as
// ErrBadCRC.
func ReadPage(r io.Reader) (*Page, error) {
	var hdr [headerSize + maxSegments]byte
	if _, err := io.ReadFull(r, hdr[:headerSize]); err != nil {
		return nil, truncated(err)
	}
	if !bytes.Equal(hdr[:4], capturePattern) {
		return nil, fmt.Errorf("%w: missing capture pattern", ErrInvalidPage)
	}
	if hdr[4] != 0 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidPage, hdr[4])
	}

	size := headerSize + int(hdr[26])
	if _, err := io.ReadFull(r, hdr[headerSize:size]); err != nil {
		return nil, truncated(err)
	}
	p := parseHeader(hdr[:size])

	p.Payload = make([]byte, payloadSize(p.Segments))
	if _, err := io.ReadFull(r, p.Payload); err != nil {
		return nil, truncated(err)
	}
	if pageChecksum(hdr[:size], p.Payload) != p.CRC {
		return nil, ErrBadCRC
	}
	return p, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated", ErrInvalidPage)
	}
	return err
}
