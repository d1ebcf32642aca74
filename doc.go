// SPDX-License-Identifier: EPL-2.0

// Package oggdec is a pure Go Ogg Vorbis decoder.
//
// The module is layered:
//
//   - container/ogg demultiplexes Ogg pages into logical streams and
//     reassembles their packets.
//   - formats/vorbis decodes a Vorbis stream into an audio.Source of
//     interleaved float32 samples.
//   - formats/wav and formats/aiff read and write integer PCM files, so
//     decoded audio can be exported.
//   - audio holds the Source interface, a mono mixer and a decoder
//     registry.
//
// # Quick Start
//
//	f, _ := os.Open("track.ogg")
//	defer f.Close()
//
//	r, err := vorbis.Decoder{}.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	out, _ := os.Create("track.wav")
//	defer out.Close()
//	_, err = wav.Encode(out, r, 16)
//
// # Collecting PCM
//
// Collect16 and CollectMono16 read a whole source into 16-bit samples:
//
//	pcm16, err := oggdec.Collect16(r, 0)
//	mono, rate, err := oggdec.CollectMono16(r, 4096)
//
// # Format Detection
//
// NewRegistry maps file extensions to decoders:
//
//	dec, err := oggdec.NewRegistry().ForPath(path)
//	src, err := dec.Decode(f)
//
// # Sample Format
//
// Sources produce float32 samples nominally in [-1.0, 1.0]. Conversion to
// integers clamps first, so Vorbis overshoot never wraps around.
//
// The command in cmd/oggdec wraps these pieces for the shell.
package oggdec
