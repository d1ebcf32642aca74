// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"io"
	"testing"

	"github.com/ik5/oggdec/internal/oggtest"
)

const testRate = 8000

var flat = &[3]int{255, 255, 0}

// forwardOnly hides Seek so the container reads in forward-only mode.
type forwardOnly struct{ io.Reader }

func setupFor(channels int) oggtest.VorbisSetup {
	return oggtest.VorbisSetup{Channels: channels, ResidueType: 1, ResidueEnd: 32}
}

func stream(serial uint32, channels int, audio ...oggtest.StreamPage) []byte {
	return oggtest.VorbisStream(serial,
		oggtest.IdentificationPacket(channels, testRate, 6, 8),
		oggtest.CommentPacket("oggdec test", "TITLE=Test Tone", "ARTIST=nobody"),
		setupFor(channels).Packet(),
		audio)
}

func silentPackets(channels, n int) [][]byte {
	s := setupFor(channels)
	pkt := s.Encode(oggtest.AudioPacket{Floor: make([]*[3]int, channels)}, 64)
	out := make([][]byte, n)
	for i := range out {
		out[i] = pkt
	}
	return out
}

// silentStream holds six short packets: 64 frames on the first audio page
// and 86 on the last one, which is trimmed by its granule position.
func silentStream(serial uint32, channels int) []byte {
	return stream(serial, channels,
		oggtest.StreamPage{Packets: silentPackets(channels, 3), Granule: 64},
		oggtest.StreamPage{Packets: silentPackets(channels, 3), Granule: 150},
	)
}

// toneStream holds three short packets with signal on channel 0 only.
func toneStream(serial uint32) []byte {
	entries := []int{0, 1, 2, 3, 3, 2, 1, 0, 1, 1, 2, 2, 0, 3, 0, 3}
	pkt := setupFor(2).Encode(oggtest.AudioPacket{
		Floor:   []*[3]int{flat, nil},
		Residue: [][]int{entries},
	}, 64)
	return stream(serial, 2, oggtest.StreamPage{Packets: [][]byte{pkt, pkt, pkt}, Granule: 64})
}

func readAll(t *testing.T, r *Reader, bufSize int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := r.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}
