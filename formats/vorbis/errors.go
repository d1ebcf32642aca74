// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrNoVorbisStream indicates an input without a Vorbis stream at the
	// requested index.
	ErrNoVorbisStream = errors.New("vorbis: no vorbis stream found")

	// ErrMissingHeader indicates a stream that ended before its three
	// header packets.
	ErrMissingHeader = errors.New("vorbis: stream ended inside the headers")
)
