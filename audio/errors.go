// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst cannot hold a whole frame")
	ErrUnknownFormat  = errors.New("unknown audio format")
)

// FormatError reports a format name with no registered decoder.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%v: no file extension", ErrUnknownFormat)
	}
	return fmt.Sprintf("%v: %q", ErrUnknownFormat, e.Format)
}

func (e *FormatError) Unwrap() error { return ErrUnknownFormat }
