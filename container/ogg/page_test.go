// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestPage_PacketLengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		segments  []byte
		want      []int
		continues bool
	}{
		{"empty", nil, nil, false},
		{"single", []byte{10}, []int{10}, false},
		{"two", []byte{10, 20}, []int{10, 20}, false},
		{"spanning", []byte{255, 255, 3, 7}, []int{513, 7}, false},
		{"exact multiple", []byte{255, 0}, []int{255}, false},
		{"continued", []byte{4, 255}, []int{4, 255}, true},
		{"only continued", []byte{255, 255}, []int{510}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Page{Segments: tt.segments}
			got, continues := p.PacketLengths()
			if !slices.Equal(got, tt.want) || continues != tt.continues {
				t.Errorf("PacketLengths() = %v, %v, want %v, %v", got, continues, tt.want, tt.continues)
			}
		})
	}
}

func TestSegmentTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{254, []byte{254}},
		{255, []byte{255, 0}},
		{600, []byte{255, 255, 90}},
	}
	for _, tt := range tests {
		if got := SegmentTable(tt.n); !bytes.Equal(got, tt.want) {
			t.Errorf("SegmentTable(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestPage_EncodeParse(t *testing.T) {
	t.Parallel()

	in := testPage(FlagFirst|FlagLast, 0xDEADBEEF, 3, -1, []byte("abc"), fill(255, 1))
	data := in.Encode()
	if len(data) != in.Len() {
		t.Fatalf("Encode() length = %d, want %d", len(data), in.Len())
	}

	out, n, err := ParsePage(append(data, 0xFF, 0xFF))
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("ParsePage() consumed %d, want %d", n, len(data))
	}
	if out.Serial != in.Serial || out.Sequence != in.Sequence || out.GranulePos != -1 {
		t.Errorf("header = %+v", out)
	}
	if !out.IsFirst() || !out.IsLast() || out.IsContinued() {
		t.Errorf("flags = %#x", out.Flags)
	}
	if !bytes.Equal(out.Payload, in.Payload) || !bytes.Equal(out.Segments, in.Segments) {
		t.Error("payload or segments differ")
	}
	if out.CRC != Checksum(append(append([]byte(nil), data[:22]...), append([]byte{0, 0, 0, 0}, data[26:]...)...)) {
		t.Error("stored CRC does not match recomputed CRC")
	}
}

func TestReadPage_Errors(t *testing.T) {
	t.Parallel()

	good := testPage(0, 1, 0, 0, []byte("payload")).Encode()
	badVersion := append([]byte(nil), good...)
	badVersion[4] = 1

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidPage},
		{"short header", good[:20], ErrInvalidPage},
		{"short payload", good[:len(good)-1], ErrInvalidPage},
		{"no capture", append([]byte("Oggs"), good[4:]...), ErrInvalidPage},
		{"version", badVersion, ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ReadPage(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("ReadPage() error = %v, want %v", err, tt.want)
			}
		})
	}
}
