// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 PCM frames.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame (1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with whole interleaved frames, nominally in
	// [-1,1], and returns the number of values written (not frames).
	// n == 0 with err == io.EOF ends the stream.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize suggests a dst length, in values.
	BufSize() int
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format names to decoders. Names are matched
// case-insensitively with any leading dot removed, so file extensions can
// be used directly. A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

func formatKey(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}

// Register adds d under every name in formats, replacing previous entries.
func (r *Registry) Register(d Decoder, formats ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range formats {
		r.codecs[formatKey(f)] = d
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[formatKey(format)]
	return d, ok
}

// ForPath returns the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := filepath.Ext(path)
	if d, ok := r.Get(ext); ok && ext != "" {
		return d, nil
	}
	return nil, &FormatError{Format: ext}
}

// Formats returns the registered names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.codecs))
}
