// SPDX-License-Identifier: EPL-2.0

package vorbis

import "github.com/ik5/oggdec/internal/codebook"

// UnknownGranule marks a packet that does not finish its page.
const UnknownGranule = -1

// PacketInfo carries the container metadata of an audio packet.
type PacketInfo struct {
	GranulePosition int64 // UnknownGranule unless the packet ends a page
	EndOfStream     bool
	EndOfPage       bool
}

// Stats counts decoder activity.
type Stats struct {
	Packets        int64 // audio packets decoded
	CorruptPackets int64 // audio packets skipped as undecodable
	Samples        int64 // samples per channel returned
}

// Decoder turns audio packets into PCM. It keeps the overlap between
// consecutive blocks and trims the first and last packets against the
// page granule positions. A Decoder is not safe for concurrent use.
type Decoder struct {
	id       *Identification
	setup    *Setup
	block    *Block
	modeBits int

	cur     [][]float32 // windowed block, BlockSize1 per channel
	prev    [][]float32 // overlap carried to the next block
	prevLen int
	out     [][]float32

	started  bool
	granule  int64 // running position, UnknownGranule until a page ends
	produced int64 // samples emitted before trimming

	stats Stats
}

// NewDecoder returns a Decoder for a stream with the given headers.
func NewDecoder(id *Identification, setup *Setup) *Decoder {
	d := &Decoder{
		id:       id,
		setup:    setup,
		block:    NewBlock(id),
		modeBits: codebook.ILog(uint32(len(setup.Modes) - 1)),
		cur:      make([][]float32, id.Channels),
		prev:     make([][]float32, id.Channels),
		out:      make([][]float32, id.Channels),
		granule:  UnknownGranule,
	}
	for ch := range id.Channels {
		d.cur[ch] = make([]float32, id.BlockSize1)
		d.prev[ch] = make([]float32, id.BlockSize1/2)
	}
	return d
}

// Channels returns the number of output channels.
func (d *Decoder) Channels() int { return d.id.Channels }

// Stats returns the counters accumulated so far.
func (d *Decoder) Stats() Stats { return d.stats }

// Position returns the granule position of the last sample returned, or
// UnknownGranule before the first page boundary.
func (d *Decoder) Position() int64 { return d.granule }

// Reset drops the overlap and the position, as after a resync.
func (d *Decoder) Reset() {
	d.started = false
	d.prevLen = 0
	d.granule = UnknownGranule
	d.produced = 0
}

// DecodePacket decodes one audio packet and returns its finished samples,
// one slice per channel. The slices are only valid until the next call.
// A packet that is not audio or cannot be decoded is counted as corrupt
// and yields no samples. The first packet of a stream yields no samples
// either, since it only primes the overlap.
func (d *Decoder) DecodePacket(r PacketReader, info PacketInfo) [][]float32 {
	mode := d.readMode(r)
	if mode == nil {
		d.stats.CorruptPackets++
		return nil
	}
	ok, start, valid, total := mode.Decode(r, d.block, d.cur)
	if !ok {
		d.stats.CorruptPackets++
		return nil
	}
	d.stats.Packets++

	samples := 0
	if d.started {
		overlap := min(d.prevLen, mode.BlockSize()-start)
		for ch, cur := range d.cur {
			prev := d.prev[ch][:overlap]
			dst := cur[start : start+overlap]
			for i, v := range prev {
				dst[i] += v
			}
		}
		samples = valid - start
	}

	begin, end := d.trim(samples, info)
	for ch, cur := range d.cur {
		d.out[ch] = cur[start+begin : start+end]
	}

	d.prevLen = total - valid
	for ch, cur := range d.cur {
		copy(d.prev[ch][:d.prevLen], cur[valid:total])
	}
	d.started = true

	if end == begin {
		return nil
	}
	d.stats.Samples += int64(end - begin)
	return d.out
}

// trim returns the part of samples that lies inside the stream, following
// the page granule positions. Extra samples before the first granule are
// dropped from the start of the stream, and samples past the final
// granule of an ended stream are dropped from its end.
func (d *Decoder) trim(samples int, info PacketInfo) (begin, end int) {
	end = samples
	d.produced += int64(samples)

	if info.GranulePosition == UnknownGranule {
		if d.granule != UnknownGranule {
			d.granule += int64(samples)
		}
		return begin, end
	}

	if d.granule == UnknownGranule {
		if extra := d.produced - info.GranulePosition; extra > 0 {
			cut := int(min(extra, int64(samples)))
			if info.EndOfStream {
				end -= cut
			} else {
				begin += cut
			}
		}
	} else if extra := d.granule + int64(samples) - info.GranulePosition; extra > 0 && info.EndOfStream {
		end -= int(min(extra, int64(samples)))
	}
	d.granule = info.GranulePosition
	return begin, end
}

// SampleCount returns the samples an audio packet adds to the stream
// without decoding it. isLastInPage applies the long-to-short page
// boundary correction. It returns 0 for packets that are not audio.
func (d *Decoder) SampleCount(r PacketReader, isLastInPage bool) int {
	mode := d.readMode(r)
	if mode == nil {
		return 0
	}
	return mode.SampleCount(r, isLastInPage)
}

func (d *Decoder) readMode(r PacketReader) *Mode {
	if r.ReadBit() {
		return nil
	}
	n := int(r.ReadBits(d.modeBits))
	if r.IsShort() || n >= len(d.setup.Modes) {
		return nil
	}
	return d.setup.Modes[n]
}
