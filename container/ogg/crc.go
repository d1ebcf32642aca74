// SPDX-License-Identifier: EPL-2.0

package ogg

// The Ogg checksum is a CRC-32 with polynomial 0x04C11DB7, processed MSB
// first with a zero initial value and no final inversion. It is not the
// IEEE CRC-32 of hash/crc32, which uses the reflected polynomial.

const crcPoly = uint32(0x04C11DB7)

var crcTable = func() (t [256]uint32) {
	for i := range t {
		crc := uint32(i) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}()

// CRC is a running Ogg page checksum. It implements hash.Hash32.
// The zero value is ready to use.
type CRC struct {
	crc uint32
}

// NewCRC returns a reset checksum.
func NewCRC() *CRC { return &CRC{} }

// Reset clears the running value.
func (c *CRC) Reset() { c.crc = 0 }

// UpdateByte feeds one byte.
func (c *CRC) UpdateByte(b byte) {
	c.crc = c.crc<<8 ^ crcTable[byte(c.crc>>24)^b]
}

// Write feeds p. It never fails.
func (c *CRC) Write(p []byte) (int, error) {
	c.crc = Update(c.crc, p)
	return len(p), nil
}

// Check reports whether the running value equals expected.
func (c *CRC) Check(expected uint32) bool { return c.crc == expected }

// Sum32 returns the running value.
func (c *CRC) Sum32() uint32 { return c.crc }

// Sum appends the big-endian running value to b.
func (c *CRC) Sum(b []byte) []byte {
	v := c.crc
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Size returns 4.
func (c *CRC) Size() int { return 4 }

// BlockSize returns 1.
func (c *CRC) BlockSize() int { return 1 }

// Update returns crc extended with p.
func Update(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// Checksum returns the Ogg checksum of data.
func Checksum(data []byte) uint32 { return Update(0, data) }
