// SPDX-License-Identifier: EPL-2.0

// Package audio defines the PCM stream abstraction shared by the decoders
// and sinks of this module.
//
// # Source Interface
//
// Every decoder produces a Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples writes whole interleaved frames and returns the number of
// float32 values written. Samples are nominally in [-1.0, 1.0]; decoded
// Vorbis audio may overshoot slightly and is clamped only when converted
// to integer PCM.
//
// The read loop is the same for every source:
//
//	buf := make([]float32, src.BufSize())
//	for {
//	    n, err := src.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// A Source may return data together with io.EOF.
//
// # Channel Mixing
//
// MonoMixer averages all channels into one:
//
//	mono := audio.NewMonoMixer(src)
//
// # Format Registry
//
// A Registry picks a decoder by format name or file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register(vorbis.Decoder{}, "ogg", "oga")
//	dec, err := registry.ForPath("track.ogg")
package audio
