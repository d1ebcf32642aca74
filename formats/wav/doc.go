// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts 16, 24 and 32-bit integer PCM and returns an
// audio.Source with samples scaled into [-1.0, 1.0):
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// Non-seekable input is read into memory first.
//
// # Encoding
//
// Encode drains an audio.Source into a WAV file. The RIFF and data chunk
// sizes are written when the source ends, so the destination must be an
// io.WriteSeeker such as *os.File:
//
//	r, _ := vorbis.Decoder{}.NewReader(in)
//	out, _ := os.Create("track.wav")
//	frames, err := wav.Encode(out, r, 16)
//
// Samples outside [-1, 1] are clamped.
package wav
