// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes uncompressed AIFF files through
// github.com/go-audio/aiff.
//
// Decoder turns a 16, 24 or 32-bit AIFF file into an audio.Source with
// samples scaled into [-1.0, 1.0). Input that cannot seek is buffered in
// memory first, since go-audio needs an io.ReadSeeker.
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// Encode drains any audio.Source into an AIFF file, which is how decoded
// Ogg Vorbis audio is exported:
//
//	r, _ := vorbis.Decoder{}.NewReader(in)
//	out, _ := os.Create("track.aiff")
//	frames, err := aiff.Encode(out, r, 16)
//
// Samples are clamped to [-1, 1] before they are quantized. AIFF stores
// samples big-endian; go-audio handles the byte order.
package aiff
