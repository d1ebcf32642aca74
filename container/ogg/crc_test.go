// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"errors"
	"hash"
	"testing"
)

var _ hash.Hash32 = (*CRC)(nil)

func TestChecksum_KnownValue(t *testing.T) {
	t.Parallel()

	// CRC-32/CKSUM of "123456789" is 0x765E7680; the Ogg variant skips the
	// final inversion.
	if got := Checksum([]byte("123456789")); got != 0x89A1897F {
		t.Errorf("Checksum() = %#08x, want 0x89a1897f", got)
	}
	if got := Checksum(nil); got != 0 {
		t.Errorf("Checksum(nil) = %#x, want 0", got)
	}
}

func TestCRC_Incremental(t *testing.T) {
	t.Parallel()

	data := []byte("The quick brown fox jumps over the lazy dog")
	want := Checksum(data)

	var c CRC
	_, _ = c.Write(data[:10])
	for _, b := range data[10:20] {
		c.UpdateByte(b)
	}
	_, _ = c.Write(data[20:])
	if !c.Check(want) {
		t.Errorf("incremental Sum32() = %#x, want %#x", c.Sum32(), want)
	}

	c.Reset()
	if c.Sum32() != 0 {
		t.Errorf("Sum32() after Reset = %#x", c.Sum32())
	}
	if got := c.Sum([]byte{1}); len(got) != 5 || got[0] != 1 {
		t.Errorf("Sum() = %v", got)
	}
}

func TestPage_CRCRoundTrip(t *testing.T) {
	t.Parallel()

	p := testPage(FlagFirst, 7, 0, 1234, []byte("hello"), fill(300, 0xAA))
	data := p.Encode()

	if _, _, err := ParsePage(data); err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}

	// Any single flipped payload byte must fail verification.
	hdr := headerSize + len(p.Segments)
	for i := hdr; i < len(data); i++ {
		corrupt := append([]byte(nil), data...)
		corrupt[i] ^= 0x01
		if _, _, err := ParsePage(corrupt); !errors.Is(err, ErrBadCRC) {
			t.Fatalf("flip at %d: error = %v, want ErrBadCRC", i, err)
		}
	}

	// Header fields are covered too.
	for _, i := range []int{5, 6, 13, 14, 18, 22, 25} {
		corrupt := append([]byte(nil), data...)
		corrupt[i] ^= 0x80
		if _, _, err := ParsePage(corrupt); !errors.Is(err, ErrBadCRC) {
			t.Errorf("flip at header byte %d: error = %v, want ErrBadCRC", i, err)
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	data := fill(4096, 0x5A)
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		Checksum(data)
	}
}
