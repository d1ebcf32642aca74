// SPDX-License-Identifier: EPL-2.0

package oggdec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/formats/aiff"
	"github.com/ik5/oggdec/formats/vorbis"
	"github.com/ik5/oggdec/formats/wav"
	"github.com/ik5/oggdec/utils"
)

// NewRegistry returns a registry with every decoder of this module:
// Ogg Vorbis under "ogg" and "oga", WAV under "wav", and AIFF under
// "aiff" and "aif".
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(vorbis.Decoder{}, "ogg", "oga")
	r.Register(wav.Decoder{}, "wav")
	r.Register(aiff.Decoder{}, "aiff", "aif")
	return r
}

// Collect16 reads src to its end and returns the interleaved samples as
// 16-bit PCM. bufferSize is the read size in values; zero or less uses
// src.BufSize(). src is not closed.
func Collect16(src audio.Source, bufferSize int) ([]int16, error) {
	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}
	buf := make([]float32, max(bufferSize, src.Channels()))

	var pcm16 []int16
	for {
		n, err := src.ReadSamples(buf)
		pcm16 = utils.FloatsToInt16(pcm16, buf[:n])

		if errors.Is(err, io.EOF) {
			return pcm16, nil
		}
		if err != nil {
			return pcm16, fmt.Errorf("collecting samples: %w", err)
		}
	}
}

// CollectMono16 mixes src down to one channel and collects it as 16-bit
// PCM. It also returns the sample rate of the result.
//
//	r, _ := vorbis.Decoder{}.NewReader(file)
//	pcm16, rate, err := oggdec.CollectMono16(r, 4096)
func CollectMono16(src audio.Source, bufferSize int) ([]int16, int, error) {
	mono := audio.NewMonoMixer(src)
	pcm16, err := Collect16(mono, bufferSize)
	return pcm16, mono.SampleRate(), err
}
