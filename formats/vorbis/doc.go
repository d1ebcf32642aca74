// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio decoding.
//
// Decoding is done natively: package container/ogg demultiplexes the Ogg
// pages and the internal Vorbis codec turns packets into PCM. No cgo and
// no external decoder is involved.
//
// # Decoding Vorbis Files
//
// Use the Decoder to read Ogg Vorbis files:
//
//	decoder := vorbis.Decoder{}
//	file, _ := os.Open("audio.ogg")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float32, nominally in [-1.0, 1.0]
//	buf := make([]float32, source.BufSize())
//	n, err := source.ReadSamples(buf)
//
// Decode returns an audio.Source. NewReader returns the concrete *Reader,
// which adds the stream Info (vendor, user comments, bitrates), a go-audio
// Format, and decoding Stats.
//
// # Stream Selection
//
// An Ogg file may multiplex several logical streams. Streams whose first
// packet is not a Vorbis identification header are ignored, and
// Decoder.StreamIndex picks among the remaining ones in the order they
// start:
//
//	r, err := vorbis.Decoder{StreamIndex: 1}.NewReader(file)
//
// # Channel Layout
//
// Samples are interleaved in Vorbis channel order:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// To convert to mono:
//
//	mono := audio.NewMonoMixer(source)
//
// # Damaged Input
//
// Garbage between pages and pages with a bad checksum are skipped; the
// number of skipped bits is reported in Stats.WasteBits. Audio packets
// that cannot be decoded are dropped and counted in Stats.CorruptPackets.
// Only I/O errors and broken headers stop decoding.
//
// # Scanning
//
// Decoder.Scan reads a stream without decoding its audio and reports its
// length from the packet headers and the final granule position:
//
//	res, err := vorbis.Decoder{}.Scan(file)
//	fmt.Println(res.Duration())
//
// # Example: Vorbis to WAV Conversion
//
//	oggFile, _ := os.Open("input.ogg")
//	source, _ := vorbis.Decoder{}.Decode(oggFile)
//
//	wavFile, _ := os.Create("output.wav")
//	_, err := wav.Encode(wavFile, source, 16)
package vorbis
