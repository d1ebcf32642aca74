// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/ik5/oggdec/internal/bitstream"
	"github.com/ik5/oggdec/internal/oggtest"
)

func reader(data []byte) *bitstream.Reader {
	return bitstream.NewReader(bytes.NewReader(data))
}

func TestReadIdentification(t *testing.T) {
	t.Parallel()

	data := oggtest.IdentificationPacket(2, 44100, 8, 11)
	if !IsHeader(data, HeaderIdentification) {
		t.Fatal("IsHeader() = false, want true")
	}

	id, err := ReadIdentification(reader(data))
	if err != nil {
		t.Fatalf("ReadIdentification() error = %v", err)
	}
	want := Identification{
		Channels:       2,
		SampleRate:     44100,
		BitrateNominal: 88200,
		BlockSize0:     256,
		BlockSize1:     2048,
	}
	if *id != want {
		t.Errorf("ReadIdentification() = %+v, want %+v", *id, want)
	}
}

func TestReadIdentification_Errors(t *testing.T) {
	t.Parallel()

	valid := oggtest.IdentificationPacket(1, 8000, 6, 8)
	patch := func(i int, b byte) []byte {
		d := slices.Clone(valid)
		d[i] = b
		return d
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"wrong type", patch(0, 3), ErrNotVorbis},
		{"bad signature", patch(1, 'x'), ErrNotVorbis},
		{"version", patch(7, 1), ErrUnsupportedVersion},
		{"zero channels", patch(11, 0), ErrInvalidHeader},
		{"zero rate", oggtest.IdentificationPacket(1, 0, 6, 8), ErrInvalidHeader},
		{"short block too small", oggtest.IdentificationPacket(1, 8000, 5, 8), ErrInvalidHeader},
		{"long block too large", oggtest.IdentificationPacket(1, 8000, 6, 14), ErrInvalidHeader},
		{"short longer than long", oggtest.IdentificationPacket(1, 8000, 9, 8), ErrInvalidHeader},
		{"no framing", patch(29, 0x86), ErrInvalidHeader},
		{"truncated", valid[:20], ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadIdentification(reader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadIdentification() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadComments(t *testing.T) {
	t.Parallel()

	data := oggtest.CommentPacket("test vendor", "TITLE=Tone", "artist=A", "ARTIST=B", "novalue")
	c, err := ReadComments(reader(data))
	if err != nil {
		t.Fatalf("ReadComments() error = %v", err)
	}
	if c.Vendor != "test vendor" {
		t.Errorf("Vendor = %q, want %q", c.Vendor, "test vendor")
	}
	if len(c.Comments) != 4 {
		t.Errorf("len(Comments) = %d, want 4", len(c.Comments))
	}
	if v, ok := c.Get("title"); !ok || v != "Tone" {
		t.Errorf("Get(title) = %q, %v, want %q, true", v, ok, "Tone")
	}
	if got := c.Values("Artist"); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Values(Artist) = %q, want [A B]", got)
	}
	if _, ok := c.Get("novalue"); ok {
		t.Error("Get(novalue) found a comment without a value")
	}
}

func TestReadComments_Errors(t *testing.T) {
	t.Parallel()

	data := oggtest.CommentPacket("vendor", "A=1")

	// Empty vendor, then a comment count far past the end of the packet.
	huge := oggtest.CommentPacket("")
	huge = append(huge[:11], 0xFF, 0xFF, 0xFF, 0xFF)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"identification", oggtest.IdentificationPacket(1, 8000, 6, 8), ErrNotVorbis},
		{"truncated vendor", data[:12], ErrInvalidHeader},
		{"truncated comment", data[:len(data)-2], ErrInvalidHeader},
		{"no framing", data[:len(data)-1], ErrInvalidHeader},
		{"comment count past end", huge, ErrInvalidHeader},
		{"comment length cut", data[:23], ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadComments(reader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadComments() error = %v, want %v", err, tt.want)
			}
		})
	}
}
