// SPDX-License-Identifier: EPL-2.0

package vorbis

// floor describes the spectral envelope of a channel. read decodes the
// per-packet parameters into d and reports false when the channel is
// unused in this packet; apply multiplies a residue vector by the curve.
type floor interface {
	Type() int
	read(r PacketReader, d *floorData) bool
	apply(d *floorData, out []float32)
}

// floorData is the per-channel scratch for floor decoding.
type floorData struct {
	amplitude    int
	coefficients []float32

	y     []int
	final []int
	step2 []bool
}
