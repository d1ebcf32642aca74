// SPDX-License-Identifier: EPL-2.0

// Package vorbis implements the Vorbis I audio codec: header parsing and
// the decoding of audio packets into PCM.
//
// A stream starts with three header packets. [ReadIdentification] parses
// the first one (channels, sample rate, block sizes), [ReadComments] the
// second (vendor string and user comments) and [ReadSetup] the third
// (codebooks, floors, residues, mappings and modes). A [Decoder] built
// from the identification and setup then turns each audio packet into
// PCM:
//
//	mode     selects the block size and window shape
//	mapping  decodes floors and residues per channel, undoes channel
//	         coupling and runs the inverse MDCT
//	decoder  windows the block and overlap-adds it with the previous one
//
// Packets are read through the [PacketReader] interface, which the Ogg
// packets of package container/ogg implement.
//
// Corrupt audio packets never stop decoding: they are skipped and counted
// in [Stats].
package vorbis
