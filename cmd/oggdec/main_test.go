// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/formats/aiff"
	"github.com/ik5/oggdec/formats/vorbis"
	"github.com/ik5/oggdec/internal/oggtest"
)

func writeOgg(t *testing.T) string {
	t.Helper()

	s := oggtest.VorbisSetup{Channels: 2, ResidueType: 1, ResidueEnd: 32}
	pkt := s.Encode(oggtest.AudioPacket{Floor: make([]*[3]int, 2)}, 64)
	data := oggtest.VorbisStream(0x1234,
		oggtest.IdentificationPacket(2, 8000, 6, 8),
		oggtest.CommentPacket("cli test", "TITLE=Silence"),
		s.Packet(),
		[]oggtest.StreamPage{{Packets: [][]byte{pkt, pkt, pkt, pkt}, Granule: 90}},
	)

	path := filepath.Join(t.TempDir(), "in.ogg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncoderFor(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.wav", "b.WAV", "c.aiff", "d.aif"} {
		if _, err := encoderFor(path); err != nil {
			t.Errorf("encoderFor(%q) error = %v", path, err)
		}
	}
	if _, err := encoderFor("e.flac"); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("encoderFor(flac) error = %v, want %v", err, audio.ErrUnknownFormat)
	}
}

func TestPrintInfo(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := printInfo(&out, vorbis.Decoder{}, writeOgg(t)); err != nil {
		t.Fatalf("printInfo() error = %v", err)
	}

	for _, want := range []string{
		"Serial:      00001234",
		"Channels:    2",
		"Sample rate: 8000 Hz",
		"Vendor:      cli test",
		"  TITLE=Silence",
		"Packets:     4",
		"Samples:     96 (granule 90)",
		"Duration:    11.25ms",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	in := writeOgg(t)
	dir := t.TempDir()

	tests := []struct {
		out          string
		mono         bool
		wantChannels int
	}{
		{"out.wav", false, 2},
		{"out.aiff", true, 1},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.out)
		var log bytes.Buffer
		if err := convert(&log, vorbis.Decoder{}, in, path, 16, tt.mono); err != nil {
			t.Fatalf("convert(%s) error = %v", tt.out, err)
		}
		if !strings.Contains(log.String(), "90 frames") {
			t.Errorf("convert(%s) output = %q", tt.out, log.String())
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		src, err := openSource(vorbis.Decoder{}, f, path)
		if err != nil {
			f.Close()
			t.Fatalf("openSource(%s) error = %v", tt.out, err)
		}
		if src.Channels() != tt.wantChannels || src.SampleRate() != 8000 {
			t.Errorf("%s: %d channels at %d Hz", tt.out, src.Channels(), src.SampleRate())
		}
		f.Close()
	}

	// WAV to AIFF goes through the registry.
	aiffPath := filepath.Join(dir, "copy.aif")
	if err := convert(&bytes.Buffer{}, vorbis.Decoder{}, filepath.Join(dir, "out.wav"), aiffPath, 24, false); err != nil {
		t.Fatalf("convert(wav to aiff) error = %v", err)
	}
	f, err := os.Open(aiffPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := (aiff.Decoder{}).Decode(f); err != nil {
		t.Errorf("decoding converted AIFF: %v", err)
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	in := writeOgg(t)
	dir := t.TempDir()

	if err := convert(&bytes.Buffer{}, vorbis.Decoder{}, in, filepath.Join(dir, "x.mp3"), 16, false); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("unknown output format: error = %v", err)
	}
	if err := convert(&bytes.Buffer{}, vorbis.Decoder{StreamIndex: 3}, in, filepath.Join(dir, "x.wav"), 16, false); !errors.Is(err, vorbis.ErrNoVorbisStream) {
		t.Errorf("missing stream: error = %v", err)
	}
	if err := convert(&bytes.Buffer{}, vorbis.Decoder{}, filepath.Join(dir, "missing.ogg"), filepath.Join(dir, "x.wav"), 16, false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing input: error = %v", err)
	}
}
