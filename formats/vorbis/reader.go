// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"strings"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/container/ogg"
	"github.com/ik5/oggdec/internal/vorbis"
)

// Info describes a Vorbis stream.
type Info struct {
	Serial         uint32
	Channels       int
	SampleRate     int
	BitrateMaximum int // bits per second, 0 when unset
	BitrateNominal int
	BitrateMinimum int
	Vendor         string
	Comments       []string // "KEY=value" user comments
}

// Comment returns the first value of the user comment key, compared
// case-insensitively.
func (i Info) Comment(key string) string {
	for _, c := range i.Comments {
		if k, v, ok := strings.Cut(c, "="); ok && strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Stats reports decoder and container counters.
type Stats struct {
	Packets        int64 // audio packets decoded
	CorruptPackets int64 // audio packets skipped
	Samples        int64 // frames returned
	WasteBits      int64 // input bits outside accepted pages
	ContainerBits  int64 // page header bits
}

// ScanResult is the outcome of Decoder.Scan.
type ScanResult struct {
	Info
	Packets       int   // audio packets
	Samples       int64 // frames counted from the packet headers
	Granule       int64 // last granule position, -1 when none
	WasteBits     int64
	ContainerBits int64
}

// Duration returns the stream length given by the last granule position,
// falling back to the counted samples.
func (s *ScanResult) Duration() time.Duration {
	frames := s.Samples
	if s.Granule >= 0 {
		frames = s.Granule
	}
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(s.SampleRate)
}

// Reader decodes one Vorbis stream into interleaved float32 samples. It
// implements audio.Source. A Reader is not safe for concurrent use.
type Reader struct {
	container *ogg.Container
	stream    *ogg.Stream
	dec       *vorbis.Decoder
	info      Info
	bufFrames int

	block  [][]float32 // decoded frames not yet returned
	offset int
	err    error
}

var _ audio.Source = (*Reader)(nil)

func (r *Reader) SampleRate() int { return r.info.SampleRate }
func (r *Reader) Channels() int   { return r.info.Channels }
func (r *Reader) BufSize() int    { return r.bufFrames * r.info.Channels }

// Info returns the stream description from the headers.
func (r *Reader) Info() Info { return r.info }

// Format returns the stream format in go-audio terms.
func (r *Reader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: r.info.Channels, SampleRate: r.info.SampleRate}
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	st := r.dec.Stats()
	return Stats{
		Packets:        st.Packets,
		CorruptPackets: st.CorruptPackets,
		Samples:        st.Samples,
		WasteBits:      r.container.WasteBits(),
		ContainerBits:  r.container.ContainerBits(),
	}
}

// Close detaches the stream from the input. It does not close the
// underlying reader.
func (r *Reader) Close() error {
	if err := r.stream.Close(); err != nil {
		return fmt.Errorf("vorbis: closing stream: %w", err)
	}
	return r.container.Close()
}

// ReadSamples fills dst with whole interleaved frames and returns the
// number of values written. It returns 0, io.EOF at the end of the stream.
func (r *Reader) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	channels := r.info.Channels
	frames := len(dst) / channels
	if frames == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n := 0
	for n < frames {
		if r.offset == r.pending() {
			if r.err != nil {
				break
			}
			if r.err = r.decodeNext(); r.err != nil {
				break
			}
		}

		count := min(frames-n, r.pending()-r.offset)
		for ch, samples := range r.block {
			src := samples[r.offset : r.offset+count]
			for i, v := range src {
				dst[(n+i)*channels+ch] = v
			}
		}
		n += count
		r.offset += count
	}

	if n > 0 {
		return n * channels, nil
	}
	return 0, r.err
}

func (r *Reader) pending() int {
	if len(r.block) == 0 {
		return 0
	}
	return len(r.block[0])
}

// decodeNext decodes packets until one yields samples.
func (r *Reader) decodeNext() error {
	for {
		pkt, err := r.stream.NextPacket()
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("vorbis: %w", err)
		}

		if pkt.IsResync {
			r.dec.Reset()
		}
		pcm := r.dec.DecodePacket(pkt, vorbis.PacketInfo{
			GranulePosition: pkt.GranulePosition,
			EndOfStream:     pkt.IsEndOfStream,
			EndOfPage:       pkt.IsEndOfPage,
		})
		if err := pkt.Err(); err != nil {
			return fmt.Errorf("vorbis: reading packet: %w", err)
		}
		if pcm != nil {
			r.block, r.offset = pcm, 0
			return nil
		}
	}
}
