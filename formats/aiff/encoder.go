// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/internal/pcm"
)

// Encode writes src to w as a bitDepth-bit AIFF file and returns the
// number of frames written. w must seek so the chunk sizes can be filled
// in at the end. src is not closed.
func Encode(w io.WriteSeeker, src audio.Source, bitDepth int) (int64, error) {
	if err := pcm.CheckBitDepth(bitDepth); err != nil {
		return 0, fmt.Errorf("aiff: %w", err)
	}

	enc := aiff.NewEncoder(w, src.SampleRate(), bitDepth, src.Channels())
	frames, err := pcm.Encode(enc, src, bitDepth)
	if err != nil {
		return frames, fmt.Errorf("aiff: %w", err)
	}
	return frames, nil
}
