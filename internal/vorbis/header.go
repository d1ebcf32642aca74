// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"strings"

	"github.com/ik5/oggdec/internal/codebook"
)

// Header packet types.
const (
	HeaderIdentification = 1
	HeaderComment        = 3
	HeaderSetup          = 5
)

const signature = "vorbis"

// Block size exponents allowed by the identification header.
const (
	minBlockExp = 6
	maxBlockExp = 13
)

// PacketReader is the bit cursor over one packet.
type PacketReader = codebook.BitReader

// IsHeader reports whether data starts with a Vorbis header of the given
// type.
func IsHeader(data []byte, kind int) bool {
	return len(data) >= 1+len(signature) &&
		int(data[0]) == kind &&
		string(data[1:1+len(signature)]) == signature
}

func readPreamble(r PacketReader, kind int) error {
	if t := int(r.ReadBits(8)); t != kind {
		return fmt.Errorf("%w: packet type %d, want %d", ErrNotVorbis, t, kind)
	}
	for i := range len(signature) {
		if byte(r.ReadBits(8)) != signature[i] {
			return fmt.Errorf("%w: bad signature", ErrNotVorbis)
		}
	}
	if r.IsShort() {
		return fmt.Errorf("%w: truncated signature", ErrNotVorbis)
	}
	return nil
}

// Identification holds the first Vorbis header.
type Identification struct {
	Channels       int
	SampleRate     int
	BitrateMaximum int32
	BitrateNominal int32
	BitrateMinimum int32
	BlockSize0     int // short block size
	BlockSize1     int // long block size
}

// ReadIdentification parses an identification header packet.
func ReadIdentification(r PacketReader) (*Identification, error) {
	if err := readPreamble(r, HeaderIdentification); err != nil {
		return nil, err
	}

	if v := r.ReadBits(32); v != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	id := &Identification{
		Channels:       int(r.ReadBits(8)),
		SampleRate:     int(r.ReadBits(32)),
		BitrateMaximum: int32(r.ReadBits(32)),
		BitrateNominal: int32(r.ReadBits(32)),
		BitrateMinimum: int32(r.ReadBits(32)),
	}
	exp0 := int(r.ReadBits(4))
	exp1 := int(r.ReadBits(4))
	framing := r.ReadBit()

	switch {
	case r.IsShort():
		return nil, fmt.Errorf("%w: truncated identification", ErrInvalidHeader)
	case id.Channels == 0:
		return nil, fmt.Errorf("%w: zero channels", ErrInvalidHeader)
	case id.SampleRate == 0:
		return nil, fmt.Errorf("%w: zero sample rate", ErrInvalidHeader)
	case exp0 < minBlockExp || exp1 > maxBlockExp || exp0 > exp1:
		return nil, fmt.Errorf("%w: block sizes 2^%d, 2^%d", ErrInvalidHeader, exp0, exp1)
	case !framing:
		return nil, fmt.Errorf("%w: missing framing bit", ErrInvalidHeader)
	}
	id.BlockSize0 = 1 << exp0
	id.BlockSize1 = 1 << exp1
	return id, nil
}

// Comments holds the vendor string and user comments of the second Vorbis
// header. User comments are usually "KEY=value" pairs.
type Comments struct {
	Vendor   string
	Comments []string
}

// ReadComments parses a comment header packet.
func ReadComments(r PacketReader) (*Comments, error) {
	if err := readPreamble(r, HeaderComment); err != nil {
		return nil, err
	}

	vendor, err := readString(r)
	if err != nil {
		return nil, err
	}
	c := &Comments{Vendor: vendor}

	count := r.ReadBits(32)
	for range count {
		if r.IsShort() {
			return nil, fmt.Errorf("%w: truncated comment list", ErrInvalidHeader)
		}
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		c.Comments = append(c.Comments, s)
	}
	if !r.ReadBit() || r.IsShort() {
		return nil, fmt.Errorf("%w: missing framing bit", ErrInvalidHeader)
	}
	return c, nil
}

func readString(r PacketReader) (string, error) {
	n := r.ReadBits(32)
	if r.IsShort() {
		return "", fmt.Errorf("%w: truncated comment length", ErrInvalidHeader)
	}
	var b strings.Builder
	for range n {
		c := byte(r.ReadBits(8))
		if r.IsShort() {
			return "", fmt.Errorf("%w: truncated comment", ErrInvalidHeader)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// Get returns the first value for key, compared case-insensitively.
func (c *Comments) Get(key string) (string, bool) {
	for _, v := range c.Comments {
		if k, val, ok := strings.Cut(v, "="); ok && strings.EqualFold(k, key) {
			return val, true
		}
	}
	return "", false
}

// Values returns every value for key, compared case-insensitively.
func (c *Comments) Values(key string) []string {
	var out []string
	for _, v := range c.Comments {
		if k, val, ok := strings.Cut(v, "="); ok && strings.EqualFold(k, key) {
			out = append(out, val)
		}
	}
	return out
}
