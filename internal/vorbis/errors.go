// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrNotVorbis indicates a header packet without the Vorbis signature
	// or of an unexpected type.
	ErrNotVorbis = errors.New("vorbis: not a vorbis header")

	// ErrUnsupportedVersion indicates an identification header with a
	// version other than 0.
	ErrUnsupportedVersion = errors.New("vorbis: unsupported version")

	// ErrInvalidHeader indicates a malformed identification or comment
	// header.
	ErrInvalidHeader = errors.New("vorbis: invalid header")

	// ErrInvalidSetup indicates a malformed setup header.
	ErrInvalidSetup = errors.New("vorbis: invalid setup header")
)
