// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and in-memory sinks for
// testing audio pipelines.
package audiotest

import (
	"io"
	"math"
)

// Source generates interleaved samples from a waveform function. It
// satisfies audio.Source.
type Source struct {
	rate     int
	channels int
	frames   int // total frames
	pos      int // frames generated so far
	bufSize  int
	closed   bool
	wave     func(frame, channel int) float32
}

// NewSource returns a source of frames frames produced by wave.
func NewSource(rate, channels, frames int, wave func(frame, channel int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, bufSize: 4096, wave: wave}
}

// NewSilence returns a source of zeros.
func NewSilence(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

// NewSine returns a sine of freq Hz on every channel.
func NewSine(rate, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

// NewConstant returns a source where channel ch holds values[ch].
func NewConstant(rate, frames int, values ...float32) *Source {
	return NewSource(rate, len(values), frames, func(_, ch int) float32 { return values[ch] })
}

// WithBufSize sets the value reported by BufSize.
func (s *Source) WithBufSize(n int) *Source {
	s.bufSize = n
	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return s.bufSize }

// Close marks the source closed.
func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Rewind starts the waveform over.
func (s *Source) Rewind() { s.pos = 0 }

// ReadSamples writes whole frames. The last frames come back with io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	frames := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range frames {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += frames

	if s.pos >= s.frames {
		return frames * s.channels, io.EOF
	}
	return frames * s.channels, nil
}

// ReadAll drains src with reads of src.BufSize() values.
func ReadAll(src interface {
	ReadSamples([]float32) (int, error)
	BufSize() int
}) ([]float32, error) {
	var out []float32
	buf := make([]float32, max(src.BufSize(), 1))
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
