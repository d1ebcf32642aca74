// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultMaxEmptyReads is the number of consecutive zero-byte reads
	// treated as end of input.
	DefaultMaxEmptyReads = 10

	// DefaultPageCacheSize is the number of pages kept for lazy packet
	// loading on seekable input.
	DefaultPageCacheSize = 64
)

// PageHandler receives the pages found by a PageReader.
type PageHandler interface {
	// AddPage offers a verified page. resync is true when bytes were
	// skipped to find it. Returning false ignores the page's serial from
	// then on.
	AddPage(p *Page, resync bool) bool

	// SetEndOfStreams is called once the input is exhausted.
	SetEndOfStreams()
}

// PageReader finds, verifies and dispatches Ogg pages.
//
// Every read requires the lock. The scan keeps one overflow buffer of bytes
// that were read ahead while checking a candidate page, so no input byte
// is read from the source twice.
type PageReader struct {
	src      io.Reader
	seeker   io.ReadSeeker // nil for forward-only input
	handler  PageHandler
	maxEmpty int
	cache    *lru.Cache[int64, *Page]

	mu   sync.Mutex
	held atomic.Bool

	hdr     [maxHeaderSize]byte
	hdrLen  int
	pending []byte
	pos     int64 // input offset of the next byte read from src
	dirty   bool  // src was moved by a random access read
	ignored map[uint32]struct{}

	wasteBits     atomic.Int64
	containerBits atomic.Int64
}

// NewPageReader returns a reader over src delivering pages to h.
// If src is an io.ReadSeeker whose position can be queried, the reader
// works in seekable mode.
func NewPageReader(src io.Reader, h PageHandler, cfg Config) (*PageReader, error) {
	r := &PageReader{
		src:      src,
		handler:  h,
		maxEmpty: cfg.MaxEmptyReads,
		ignored:  make(map[uint32]struct{}),
	}
	if r.maxEmpty <= 0 {
		r.maxEmpty = DefaultMaxEmptyReads
	}

	if rs, ok := src.(io.ReadSeeker); ok {
		if pos, err := rs.Seek(0, io.SeekCurrent); err == nil {
			size := cfg.PageCacheSize
			if size <= 0 {
				size = DefaultPageCacheSize
			}
			cache, err := lru.New[int64, *Page](size)
			if err != nil {
				return nil, fmt.Errorf("ogg: page cache: %w", err)
			}
			r.seeker = rs
			r.pos = pos
			r.cache = cache
		}
	}
	return r, nil
}

// CanSeek reports whether the reader works in seekable mode.
func (r *PageReader) CanSeek() bool { return r.seeker != nil }

// WasteBits returns the number of bits skipped as not belonging to any
// accepted page.
func (r *PageReader) WasteBits() int64 { return r.wasteBits.Load() }

// ContainerBits returns the number of page header bits of accepted pages.
func (r *PageReader) ContainerBits() int64 { return r.containerBits.Load() }

// Lock acquires the reader.
func (r *PageReader) Lock() {
	r.mu.Lock()
	r.held.Store(true)
}

// Release gives up the reader and reports whether it was held, so a caller
// that releases temporarily knows whether to lock again.
func (r *PageReader) Release() bool {
	if !r.held.CompareAndSwap(true, false) {
		return false
	}
	r.mu.Unlock()
	return true
}

// ReadNextPage finds the next valid page and hands it to the handler. It
// returns false once the input is exhausted, after calling
// SetEndOfStreams. Pages the handler rejects are skipped.
func (r *PageReader) ReadNextPage() (bool, error) {
	if !r.held.Load() {
		return false, ErrNotLocked
	}

	resync := false
	for {
		if err := r.resume(); err != nil {
			return false, err
		}

		p, skipped, err := r.scan()
		if skipped > 0 {
			resync = true
		}
		if err != nil {
			return false, err
		}
		if p == nil {
			r.handler.SetEndOfStreams()
			return false, nil
		}
		if r.dispatch(p, resync) {
			return true, nil
		}
	}
}

// ReadPageAt reads and verifies the page starting at offset without
// dispatching it.
func (r *PageReader) ReadPageAt(offset int64) (*Page, error) {
	if !r.held.Load() {
		return nil, ErrNotLocked
	}
	if r.seeker == nil {
		return nil, ErrNotSeekable
	}
	if p, ok := r.cache.Get(offset); ok {
		return p, nil
	}

	r.dirty = true
	if _, err := r.seeker.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	p, err := ReadPage(r.seeker)
	if err != nil {
		return nil, err
	}
	p.Offset = offset
	r.cache.Add(offset, p)
	return p, nil
}

// packetData returns length payload bytes at start of the page at
// pageOffset, taking the lock when the page is not cached.
func (r *PageReader) packetData(pageOffset int64, start, length int) ([]byte, error) {
	if r.cache == nil {
		return nil, ErrNotSeekable
	}
	p, ok := r.cache.Get(pageOffset)
	if !ok {
		r.Lock()
		var err error
		p, err = r.ReadPageAt(pageOffset)
		r.Release()
		if err != nil {
			return nil, err
		}
	}
	if start+length > len(p.Payload) {
		return nil, fmt.Errorf("%w: packet past end of page at %d", ErrInvalidPage, pageOffset)
	}
	return p.Payload[start : start+length], nil
}

// resume moves the source back to the scan position after random access.
func (r *PageReader) resume() error {
	if !r.dirty {
		return nil
	}
	if _, err := r.seeker.Seek(r.pos, io.SeekStart); err != nil {
		return err
	}
	r.dirty = false
	return nil
}

func (r *PageReader) dispatch(p *Page, resync bool) bool {
	pageBits := int64(p.Len()) * 8
	if _, ok := r.ignored[p.Serial]; ok {
		r.wasteBits.Add(pageBits)
		return false
	}

	if r.cache != nil {
		r.cache.Add(p.Offset, p)
	}
	if r.handler.AddPage(p, resync) {
		r.containerBits.Add(int64(headerSize+len(p.Segments)) * 8)
		return true
	}

	if r.cache != nil {
		r.cache.Remove(p.Offset)
	}
	r.ignored[p.Serial] = struct{}{}
	r.wasteBits.Add(pageBits)
	return false
}

// scan returns the next verified page, or nil at end of input, along with
// the number of bytes skipped to reach it.
func (r *PageReader) scan() (*Page, int, error) {
	skipped := 0
	for {
		if r.hdrLen < headerSize {
			n, err := r.fill(r.hdr[r.hdrLen:headerSize])
			r.hdrLen += n
			if err != nil {
				return nil, skipped, err
			}
			if r.hdrLen < headerSize {
				// Too little data left to hold a page.
				skipped += r.hdrLen
				r.skip(r.hdrLen)
				return nil, skipped, nil
			}
		}

		if !bytes.HasPrefix(r.hdr[:r.hdrLen], capturePattern) || r.hdr[4] != 0 {
			i := bytes.Index(r.hdr[1:r.hdrLen], capturePattern) + 1
			if i == 0 {
				// Keep the tail: it may be the start of a capture pattern.
				i = r.hdrLen - (len(capturePattern) - 1)
			}
			skipped += i
			r.skip(i)
			continue
		}

		size := headerSize + int(r.hdr[26])
		if r.hdrLen < size {
			n, err := r.fill(r.hdr[r.hdrLen:size])
			r.hdrLen += n
			if err != nil {
				return nil, skipped, err
			}
			if r.hdrLen < size {
				skipped++
				r.skip(1)
				continue
			}
		} else if r.hdrLen > size {
			r.unread(r.hdr[size:r.hdrLen])
			r.hdrLen = size
		}

		payload := make([]byte, payloadSize(r.hdr[headerSize:size]))
		n, err := r.fill(payload)
		if err != nil {
			r.unread(payload[:n])
			return nil, skipped, err
		}
		stored := binary.LittleEndian.Uint32(r.hdr[22:26])
		if n < len(payload) || pageChecksum(r.hdr[:size], payload) != stored {
			// Not a page after all: rescan everything after its first byte.
			r.unread(payload[:n])
			skipped++
			r.skip(1)
			continue
		}

		p := parseHeader(r.hdr[:size])
		p.Payload = payload
		p.Offset = r.offset() - int64(size+len(payload))
		r.hdrLen = 0
		return p, skipped, nil
	}
}

// skip drops n bytes from the front of the header window as waste.
func (r *PageReader) skip(n int) {
	copy(r.hdr[:], r.hdr[n:r.hdrLen])
	r.hdrLen -= n
	r.wasteBits.Add(int64(n) * 8)
}

// offset returns the input offset of the next byte fill will deliver.
func (r *PageReader) offset() int64 { return r.pos - int64(len(r.pending)) }

// unread pushes p back in front of the pending bytes.
func (r *PageReader) unread(p []byte) {
	if len(p) == 0 {
		return
	}
	buf := make([]byte, 0, len(p)+len(r.pending))
	buf = append(buf, p...)
	r.pending = append(buf, r.pending...)
}

// fill reads into buf from the pending bytes and then from src. It stops
// short at end of input or after maxEmpty consecutive empty reads.
func (r *PageReader) fill(buf []byte) (int, error) {
	n := copy(buf, r.pending)
	r.pending = r.pending[n:]
	if len(r.pending) == 0 {
		r.pending = nil
	}

	empty := 0
	for n < len(buf) {
		m, err := r.src.Read(buf[n:])
		n += m
		r.pos += int64(m)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		if m > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= r.maxEmpty {
			break
		}
	}
	return n, nil
}
