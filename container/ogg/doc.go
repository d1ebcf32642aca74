// SPDX-License-Identifier: EPL-2.0

// Package ogg demultiplexes Ogg bitstreams (RFC 3533) into packets.
//
// # Overview
//
// An Ogg file is a sequence of pages. Each page carries a 27-byte header
// starting with the "OggS" capture pattern, a segment table, and a payload.
// Pages belong to logical streams identified by a serial number, and the
// packets of a stream may span several pages.
//
// The package is built from three layers:
//
//   - [PageReader] locates pages in a byte stream, verifies their CRC and
//     resynchronizes after corrupt or truncated data.
//   - [Container] routes pages to logical streams by serial number and
//     offers newly discovered streams to a callback.
//   - [Stream] reassembles pages into [Packet] values, joining packets
//     that continue across page boundaries.
//
// # Basic usage
//
//	c, err := ogg.NewContainer(f, ogg.Config{})
//	if err != nil {
//	    return err
//	}
//	if ok, err := c.Init(); err != nil || !ok {
//	    return err
//	}
//	s := c.Streams()[0]
//	for {
//	    p, err := s.NextPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // read p with p.ReadBits ...
//	}
//
// # Seekable and forward-only input
//
// When the input implements [io.ReadSeeker], packets keep only the offset
// of the pages that hold their data and load it on first read, through a
// small LRU page cache. Any other [io.Reader] is read strictly forward and
// packets capture their data as pages arrive.
//
// # Corrupt data
//
// Corrupt pages are never reported as errors. Bytes skipped while searching
// for the next valid page are counted by [Container.WasteBits], and the
// header bits of accepted pages by [Container.ContainerBits]. Only I/O
// errors from the underlying reader are returned.
//
// # Concurrency
//
// The page reader is guarded by an explicit lock ([PageReader.Lock] and
// [PageReader.Release]). Streams acquire it on their own when they need
// more pages, so several goroutines may each consume a different
// [Stream] of the same container.
package ogg
