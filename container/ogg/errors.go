// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	// ErrInvalidPage indicates data that does not hold a complete Ogg page.
	ErrInvalidPage = errors.New("ogg: invalid page")

	// ErrBadCRC indicates a page whose checksum does not match its content.
	ErrBadCRC = errors.New("ogg: page checksum mismatch")

	// ErrNotLocked indicates a page read without holding the reader lock.
	ErrNotLocked = errors.New("ogg: page reader is not locked")

	// ErrNotSeekable indicates a random access read on forward-only input.
	ErrNotSeekable = errors.New("ogg: input is not seekable")
)
