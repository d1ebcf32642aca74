// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"io"
	"slices"
	"sync"
)

// Config tunes a Container. The zero value is ready to use.
type Config struct {
	// MaxEmptyReads is the number of consecutive zero-byte reads that end
	// the input. Zero means DefaultMaxEmptyReads.
	MaxEmptyReads int

	// PageCacheSize is the number of pages cached for lazy packet loading
	// on seekable input. Zero means DefaultPageCacheSize.
	PageCacheSize int

	// NewStreamFunc is offered every new logical stream. It runs without
	// the reader lock, so it may pull packets from the stream. Returning
	// false rejects the stream and ignores its serial. Nil accepts all
	// streams.
	NewStreamFunc func(*Stream) bool
}

// Container demultiplexes an Ogg input into logical streams.
type Container struct {
	reader  *PageReader
	onNew   func(*Stream) bool
	mu      sync.Mutex
	streams map[uint32]*Stream // routing table
	order   []*Stream          // accepted streams in discovery order
	found   bool
}

// NewContainer returns a container reading from r. Seekable input is
// detected automatically.
func NewContainer(r io.Reader, cfg Config) (*Container, error) {
	c := &Container{
		onNew:   cfg.NewStreamFunc,
		streams: make(map[uint32]*Stream),
	}
	pr, err := NewPageReader(r, router{c}, cfg)
	if err != nil {
		return nil, err
	}
	c.reader = pr
	return c, nil
}

// Init finds the first stream. It reports false when the input holds no
// acceptable stream.
func (c *Container) Init() (bool, error) { return c.FindNextStream() }

// FindNextStream reads pages until a new stream is accepted or the input
// ends.
func (c *Container) FindNextStream() (bool, error) {
	c.reader.Lock()
	defer c.reader.Release()

	c.found = false
	for {
		ok, err := c.reader.ReadNextPage()
		if err != nil || !ok {
			return false, err
		}
		if c.found {
			return true, nil
		}
	}
}

// Streams returns the accepted streams that are still open.
func (c *Container) Streams() []*Stream {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = slices.DeleteFunc(c.order, func(s *Stream) bool {
		if s.IsClosed() {
			delete(c.streams, s.serial)
			return true
		}
		return false
	})
	return slices.Clone(c.order)
}

// CanSeek reports whether the input is read in seekable mode.
func (c *Container) CanSeek() bool { return c.reader.CanSeek() }

// WasteBits returns the number of input bits that did not belong to an
// accepted page.
func (c *Container) WasteBits() int64 { return c.reader.WasteBits() }

// ContainerBits returns the number of page header bits of accepted pages.
func (c *Container) ContainerBits() int64 { return c.reader.ContainerBits() }

// Close ends every stream. It does not close the underlying reader.
func (c *Container) Close() error {
	router{c}.SetEndOfStreams()
	return nil
}

func (c *Container) lookup(serial uint32) (*Stream, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.streams[serial]
	if ok && s.IsClosed() {
		delete(c.streams, serial)
		return nil, false
	}
	return s, ok
}

// processNewStream offers a stream started by its first page to the
// callback, with the reader released for the duration of the call.
func (c *Container) processNewStream(pg *Page, resync bool) bool {
	s := newStream(pg.Serial, c.reader)
	s.addPage(pg, resync)

	c.mu.Lock()
	c.streams[pg.Serial] = s
	c.mu.Unlock()

	accept := true
	if c.onNew != nil {
		relock := c.reader.Release()
		accept = c.onNew(s)
		if relock {
			c.reader.Lock()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !accept || s.IsClosed() {
		delete(c.streams, pg.Serial)
		s.closed.Store(true)
		return false
	}
	c.order = append(c.order, s)
	c.found = true
	return true
}

// router implements PageHandler for a Container.
type router struct{ c *Container }

func (r router) AddPage(pg *Page, resync bool) bool {
	if s, ok := r.c.lookup(pg.Serial); ok {
		return s.addPage(pg, resync)
	}
	if !pg.IsFirst() {
		return false
	}
	return r.c.processNewStream(pg, resync)
}

func (r router) SetEndOfStreams() {
	r.c.mu.Lock()
	streams := make([]*Stream, 0, len(r.c.streams))
	for _, s := range r.c.streams {
		streams = append(streams, s)
	}
	r.c.mu.Unlock()

	for _, s := range streams {
		s.setEndOfStream()
	}
}
