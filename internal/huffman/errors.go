// SPDX-License-Identifier: EPL-2.0

package huffman

import "errors"

var (
	// ErrInvalidLength indicates a codeword length outside 1..32.
	ErrInvalidLength = errors.New("huffman: invalid codeword length")

	// ErrOverspecified indicates more codewords than the lengths allow.
	ErrOverspecified = errors.New("huffman: overspecified codeword lengths")

	// ErrUnderspecified indicates a tree with unreachable leaves.
	ErrUnderspecified = errors.New("huffman: underspecified codeword lengths")
)
