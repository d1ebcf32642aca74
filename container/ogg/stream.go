// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"io"
	"sync"
	"sync/atomic"
)

// Stream is one logical bitstream of a container. It turns the stream's
// pages into complete packets and pulls more pages from the shared reader
// on demand.
type Stream struct {
	serial uint32
	reader *PageReader

	mu      sync.Mutex
	queue   []*Packet
	pending *Packet // last packet of the previous page, still continued
	eos     bool
	pages   int

	closed atomic.Bool
}

func newStream(serial uint32, r *PageReader) *Stream {
	return &Stream{serial: serial, reader: r}
}

// Serial returns the stream serial number.
func (s *Stream) Serial() uint32 { return s.serial }

// Pages returns the number of pages the stream has received.
func (s *Stream) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// NextPacket returns the next complete packet and removes it from the
// queue. It returns io.EOF after the last packet.
func (s *Stream) NextPacket() (*Packet, error) { return s.next(true) }

// PeekPacket returns the next complete packet without removing it.
func (s *Stream) PeekPacket() (*Packet, error) { return s.next(false) }

func (s *Stream) next(consume bool) (*Packet, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			p := s.queue[0]
			if consume {
				s.queue[0] = nil
				s.queue = s.queue[1:]
			}
			s.mu.Unlock()
			return p, nil
		}
		done := s.eos
		s.mu.Unlock()

		if done || s.closed.Load() {
			return nil, io.EOF
		}
		if err := s.readMore(); err != nil {
			return nil, err
		}
	}
}

func (s *Stream) readMore() error {
	s.reader.Lock()
	defer s.reader.Release()

	_, err := s.reader.ReadNextPage()
	return err
}

// Close detaches the stream from its container. Pages for it are ignored
// from then on and queued packets are dropped.
func (s *Stream) Close() error {
	s.closed.Store(true)
	s.mu.Lock()
	s.queue = nil
	s.pending = nil
	s.mu.Unlock()
	return nil
}

// IsClosed reports whether Close was called.
func (s *Stream) IsClosed() bool { return s.closed.Load() }

// setEndOfStream marks that no more pages will arrive. A continued packet
// still pending can never complete and is dropped.
func (s *Stream) setEndOfStream() {
	s.mu.Lock()
	s.eos = true
	s.pending = nil
	s.mu.Unlock()
}

// addPage splits a page into packets. It reports false when the stream
// no longer accepts pages.
func (s *Stream) addPage(pg *Page, resync bool) bool {
	if s.closed.Load() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eos {
		return false
	}
	s.pages++

	var loader dataLoader
	if s.reader != nil && s.reader.CanSeek() {
		loader = s.reader
	}

	lengths, continues := pg.PacketLengths()
	last := len(lengths) - 1
	lastComplete := last
	if continues {
		lastComplete--
	}

	if !pg.IsContinued() && s.pending != nil {
		// The continuation never arrived.
		s.pending = nil
	}

	offset := 0
	for i, length := range lengths {
		f := fragment{pageOffset: pg.Offset, start: offset, length: length}
		if loader == nil {
			f.data = pg.Payload[offset : offset+length]
		}
		offset += length

		p := newPacket(f, loader)
		p.PageGranulePosition = pg.GranulePos
		p.Sequence = pg.Sequence
		p.IsResync = resync && i == 0
		p.IsContinued = continues && i == last
		if i == lastComplete {
			p.GranulePosition = pg.GranulePos
			p.IsEndOfPage = true
			p.IsEndOfStream = pg.IsLast()
		}

		if i == 0 && pg.IsContinued() {
			if s.pending == nil {
				// The start of this packet was lost.
				continue
			}
			s.pending.mergeWith(p)
			p = s.pending
			s.pending = nil
		}

		if p.IsContinued {
			s.pending = p
			continue
		}
		s.queue = append(s.queue, p)
	}

	if pg.IsLast() {
		s.eos = true
		s.pending = nil
	}
	return true
}
