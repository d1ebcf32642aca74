// SPDX-License-Identifier: EPL-2.0

// Package utils converts float samples to integer PCM.
package utils

// FloatToPCM clamps x to [-1,1] and scales it to a signed integer of
// bitDepth bits (8..32). The positive and negative ranges are symmetric.
func FloatToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	full := float64(int64(1)<<(bitDepth-1) - 1)
	return int(float64(x) * full)
}

// Float32ToInt16 converts x to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	return int16(FloatToPCM(x, 16))
}

// FloatsToPCM converts src into dst, which must be at least as long, and
// returns dst[:len(src)].
func FloatsToPCM(dst []int, src []float32, bitDepth int) []int {
	dst = dst[:len(src)]
	for i, x := range src {
		dst[i] = FloatToPCM(x, bitDepth)
	}
	return dst
}

// FloatsToInt16 appends the 16-bit conversion of src to dst.
func FloatsToInt16(dst []int16, src []float32) []int16 {
	for _, x := range src {
		dst = append(dst, Float32ToInt16(x))
	}
	return dst
}
