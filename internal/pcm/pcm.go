// SPDX-License-Identifier: EPL-2.0

// Package pcm bridges go-audio integer PCM codecs and audio.Source.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/utils"
)

// ErrUnsupportedBitDepth is returned for sample sizes other than 16, 24
// and 32 bits.
var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// DefaultBufferFrames is the frame count Reader.BufSize is based on.
const DefaultBufferFrames = 4096

// CheckBitDepth reports ErrUnsupportedBitDepth for unsupported sizes.
func CheckBitDepth(bits int) error {
	switch bits {
	case 16, 24, 32:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
}

// ReadSeeker returns r itself when it can seek, and otherwise buffers it
// whole.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Decoder is the read side of the go-audio wav and aiff decoders.
type Decoder interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Reader adapts a Decoder to audio.Source, scaling integer samples of
// bitDepth bits into [-1,1).
type Reader struct {
	dec      Decoder
	format   *goaudio.Format
	scale    float32
	intBuf   *goaudio.IntBuffer
	bitDepth int
	done     bool
}

var _ audio.Source = (*Reader)(nil)

func NewReader(dec Decoder, bitDepth int) *Reader {
	return &Reader{
		dec:      dec,
		format:   dec.Format(),
		scale:    1 / float32(int64(1)<<(bitDepth-1)),
		bitDepth: bitDepth,
	}
}

func (r *Reader) SampleRate() int { return r.format.SampleRate }
func (r *Reader) Channels() int   { return r.format.NumChannels }
func (r *Reader) BufSize() int    { return DefaultBufferFrames * r.format.NumChannels }
func (r *Reader) BitDepth() int   { return r.bitDepth }
func (r *Reader) Close() error    { return nil }

func (r *Reader) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if r.done {
		return 0, io.EOF
	}
	want := len(dst) / r.format.NumChannels * r.format.NumChannels
	if want == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	if r.intBuf == nil || cap(r.intBuf.Data) < want {
		r.intBuf = &goaudio.IntBuffer{
			Format:         r.format,
			Data:           make([]int, want),
			SourceBitDepth: r.bitDepth,
		}
	}
	r.intBuf.Data = r.intBuf.Data[:want]

	n, err := r.dec.PCMBuffer(r.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading PCM: %w", err)
	}
	n -= n % r.format.NumChannels
	if n == 0 {
		r.done = true
		return 0, io.EOF
	}

	for i, v := range r.intBuf.Data[:n] {
		dst[i] = float32(v) * r.scale
	}
	return n, nil
}

// Encoder is the write side of the go-audio wav and aiff encoders.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// Encode drains src into enc as bitDepth-bit PCM and closes enc. It
// returns the number of frames written. src is not closed.
func Encode(enc Encoder, src audio.Source, bitDepth int) (int64, error) {
	channels := src.Channels()
	size := max(src.BufSize()/channels, 1) * channels
	samples := make([]float32, size)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		Data:           make([]int, size),
		SourceBitDepth: bitDepth,
	}

	var frames int64
	for {
		n, err := src.ReadSamples(samples)
		if n > 0 {
			buf.Data = utils.FloatsToPCM(buf.Data[:cap(buf.Data)], samples[:n], bitDepth)
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("writing PCM: %w", werr)
			}
			frames += int64(n / channels)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("reading source: %w", err)
		}
	}

	if frames == 0 {
		// The go-audio encoders only lay out their headers on Write.
		buf.Data = buf.Data[:0]
		if err := enc.Write(buf); err != nil {
			return 0, fmt.Errorf("writing PCM: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("finishing file: %w", err)
	}
	return frames, nil
}
