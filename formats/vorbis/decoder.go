// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/container/ogg"
	"github.com/ik5/oggdec/internal/vorbis"
)

// DefaultBufferFrames is the read size BufSize suggests when
// Decoder.BufferFrames is zero.
const DefaultBufferFrames = 2048

// Decoder opens Ogg Vorbis input. The zero value decodes the first Vorbis
// stream of the input with default container settings.
type Decoder struct {
	// StreamIndex selects among the Vorbis streams of a multiplexed
	// input, in the order they start.
	StreamIndex int

	// MaxEmptyReads and PageCacheSize are passed to the Ogg container.
	MaxEmptyReads int
	PageCacheSize int

	// BufferFrames is the frame count BufSize reports.
	BufferFrames int
}

// Decode implements audio.Decoder.
func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	return d.NewReader(r)
}

// NewReader opens the selected stream and reads its headers.
func (d Decoder) NewReader(r io.Reader) (*Reader, error) {
	c, s, err := d.open(r)
	if err != nil {
		return nil, err
	}

	h, err := readHeaders(s)
	if err != nil {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("vorbis: closing container: %w", cerr))
		}
		return nil, err
	}

	frames := d.BufferFrames
	if frames <= 0 {
		frames = DefaultBufferFrames
	}
	return &Reader{
		container: c,
		stream:    s,
		dec:       vorbis.NewDecoder(h.id, h.setup),
		info:      h.info(s.Serial()),
		bufFrames: frames,
	}, nil
}

// Scan reads the selected stream to its end without decoding audio. It
// returns the stream info and the sample count derived from the packet
// headers and the final granule position.
func (d Decoder) Scan(r io.Reader) (*ScanResult, error) {
	c, s, err := d.open(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	h, err := readHeaders(s)
	if err != nil {
		return nil, err
	}
	dec := vorbis.NewDecoder(h.id, h.setup)

	res := &ScanResult{Info: h.info(s.Serial()), Granule: vorbis.UnknownGranule}
	first := true
	for {
		pkt, err := s.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vorbis: scanning: %w", err)
		}

		n := dec.SampleCount(pkt, pkt.IsEndOfPage)
		if err := pkt.Err(); err != nil {
			return nil, fmt.Errorf("vorbis: scanning: %w", err)
		}
		res.Packets++
		if !first {
			res.Samples += int64(n)
		}
		first = false
		if pkt.GranulePosition != vorbis.UnknownGranule {
			res.Granule = pkt.GranulePosition
		}
	}
	res.WasteBits = c.WasteBits()
	res.ContainerBits = c.ContainerBits()
	return res, nil
}

// open finds the requested Vorbis stream. Other streams are rejected so
// their pages are not queued.
func (d Decoder) open(r io.Reader) (*ogg.Container, *ogg.Stream, error) {
	var (
		index    int
		selected *ogg.Stream
	)
	accept := func(s *ogg.Stream) bool {
		if selected != nil || !isVorbis(s) {
			return false
		}
		n := index
		index++
		if n != d.StreamIndex {
			return false
		}
		selected = s
		return true
	}

	c, err := ogg.NewContainer(r, ogg.Config{
		MaxEmptyReads: d.MaxEmptyReads,
		PageCacheSize: d.PageCacheSize,
		NewStreamFunc: accept,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vorbis: %w", err)
	}

	ok, err := c.Init()
	if err != nil {
		return nil, nil, fmt.Errorf("vorbis: %w", err)
	}
	if !ok || selected == nil {
		return nil, nil, fmt.Errorf("%w: index %d", ErrNoVorbisStream, d.StreamIndex)
	}
	return c, selected, nil
}

func isVorbis(s *ogg.Stream) bool {
	pkt, err := s.PeekPacket()
	if err != nil {
		return false
	}
	data, err := pkt.Bytes()
	return err == nil && vorbis.IsHeader(data, vorbis.HeaderIdentification)
}

type headers struct {
	id       *vorbis.Identification
	comments *vorbis.Comments
	setup    *vorbis.Setup
}

func readHeaders(s *ogg.Stream) (*headers, error) {
	next := func() (*ogg.Packet, error) {
		pkt, err := s.NextPacket()
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		if err != nil {
			return nil, fmt.Errorf("vorbis: reading headers: %w", err)
		}
		return pkt, nil
	}

	h := &headers{}
	pkt, err := next()
	if err != nil {
		return nil, err
	}
	if h.id, err = vorbis.ReadIdentification(pkt); err != nil {
		return nil, err
	}

	if pkt, err = next(); err != nil {
		return nil, err
	}
	if h.comments, err = vorbis.ReadComments(pkt); err != nil {
		return nil, err
	}

	if pkt, err = next(); err != nil {
		return nil, err
	}
	if h.setup, err = vorbis.ReadSetup(pkt, h.id); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *headers) info(serial uint32) Info {
	return Info{
		Serial:         serial,
		Channels:       h.id.Channels,
		SampleRate:     h.id.SampleRate,
		BitrateMaximum: int(h.id.BitrateMaximum),
		BitrateNominal: int(h.id.BitrateNominal),
		BitrateMinimum: int(h.id.BitrateMinimum),
		Vendor:         h.comments.Vendor,
		Comments:       h.comments.Comments,
	}
}
