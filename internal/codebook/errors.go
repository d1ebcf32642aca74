// SPDX-License-Identifier: EPL-2.0

package codebook

import "errors"

var (
	// ErrBadSync indicates a codebook without the BCV sync pattern.
	ErrBadSync = errors.New("codebook: missing sync pattern")

	// ErrInvalidCodebook indicates a structurally invalid codebook.
	ErrInvalidCodebook = errors.New("codebook: invalid codebook")

	// ErrTruncated indicates the setup data ended inside a codebook.
	ErrTruncated = errors.New("codebook: truncated definition")
)
