// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/oggdec/formats/aiff"
	"github.com/ik5/oggdec/internal/audiotest"
)

func ExampleEncode() {
	out := audiotest.NewFile(nil) // an *os.File in real code
	frames, err := aiff.Encode(out, audiotest.NewConstant(44100, 441, 0.25, -0.25), 16)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	src, err := aiff.Decoder{}.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	buf := make([]float32, 2)
	src.ReadSamples(buf)
	fmt.Printf("%d frames at %d Hz, first frame %.2f %.2f\n", frames, src.SampleRate(), buf[0], buf[1])
	// Output:
	// 441 frames at 44100 Hz, first frame 0.25 -0.25
}
