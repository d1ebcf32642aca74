// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/internal/pcm"
)

// Encode writes src to w as a bitDepth-bit PCM WAV file and returns the
// number of frames written. The header is patched when src ends, so w
// must seek. src is not closed.
func Encode(w io.WriteSeeker, src audio.Source, bitDepth int) (int64, error) {
	if err := pcm.CheckBitDepth(bitDepth); err != nil {
		return 0, fmt.Errorf("wav: %w", err)
	}

	enc := wav.NewEncoder(w, src.SampleRate(), bitDepth, src.Channels(), formatPCM)
	frames, err := pcm.Encode(enc, src, bitDepth)
	if err != nil {
		return frames, fmt.Errorf("wav: %w", err)
	}
	return frames, nil
}
