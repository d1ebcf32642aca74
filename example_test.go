// SPDX-License-Identifier: EPL-2.0

package oggdec_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/oggdec"
	"github.com/ik5/oggdec/formats/vorbis"
	"github.com/ik5/oggdec/formats/wav"
	"github.com/ik5/oggdec/internal/audiotest"
	"github.com/ik5/oggdec/internal/oggtest"
)

// silentOgg returns a stereo Ogg Vorbis stream of 90 silent frames.
func silentOgg() []byte {
	s := oggtest.VorbisSetup{Channels: 2, ResidueType: 2, ResidueEnd: 32}
	pkt := s.Encode(oggtest.AudioPacket{Floor: make([]*[3]int, 2)}, 64)
	return oggtest.VorbisStream(1,
		oggtest.IdentificationPacket(2, 8000, 6, 8),
		oggtest.CommentPacket("example"),
		s.Packet(),
		[]oggtest.StreamPage{{Packets: [][]byte{pkt, pkt, pkt, pkt}, Granule: 90}},
	)
}

func Example() {
	r, err := vorbis.Decoder{}.NewReader(bytes.NewReader(silentOgg()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	out := audiotest.NewFile(nil) // an *os.File in real code
	frames, err := wav.Encode(out, r, 16)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("wrote %d frames, %d bytes\n", frames, len(out.Bytes()))
	// Output:
	// wrote 90 frames, 404 bytes
}

func ExampleCollectMono16() {
	dec, err := oggdec.NewRegistry().ForPath("silence.ogg")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	src, err := dec.Decode(bytes.NewReader(silentOgg()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer src.Close()

	pcm16, rate, err := oggdec.CollectMono16(src, 4096)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%d samples at %d Hz\n", len(pcm16), rate)
	// Output:
	// 90 samples at 8000 Hz
}
