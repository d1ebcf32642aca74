// SPDX-License-Identifier: EPL-2.0

// Command oggdec decodes Ogg Vorbis files to WAV or AIFF.
//
// Usage:
//
//	oggdec -in track.ogg -out track.wav
//	oggdec -in track.ogg -out track.aiff -bits 24 -mono
//	oggdec -in chained.ogg -stream 1 -out second.wav
//	oggdec -in track.ogg -info
//	oggdec -in track.ogg -compare
//
// Inputs in WAV or AIFF are converted as well, picked by extension.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/oggdec"
	"github.com/ik5/oggdec/audio"
	"github.com/ik5/oggdec/formats/aiff"
	"github.com/ik5/oggdec/formats/vorbis"
	"github.com/ik5/oggdec/formats/wav"
	"github.com/jfreymuth/oggvorbis"
)

func main() {
	input := flag.String("in", "", "Input file (.ogg, .oga, .wav, .aiff)")
	output := flag.String("out", "", "Output file, .wav or .aiff")
	bits := flag.Int("bits", 16, "Output bit depth: 16, 24 or 32")
	mono := flag.Bool("mono", false, "Mix all channels down to mono")
	stream := flag.Int("stream", 0, "Index of the Vorbis stream to decode in a multiplexed file")
	info := flag.Bool("info", false, "Print stream information and exit")
	compare := flag.Bool("compare", false, "Compare the decode against github.com/jfreymuth/oggvorbis")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("oggdec: ")

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	dec := vorbis.Decoder{StreamIndex: *stream}

	switch {
	case *info:
		if err := printInfo(os.Stdout, dec, *input); err != nil {
			log.Fatalf("info: %v", err)
		}
	case *compare:
		if err := compareDecode(os.Stdout, dec, *input); err != nil {
			log.Fatalf("compare: %v", err)
		}
	case *output != "":
		if err := convert(os.Stdout, dec, *input, *output, *bits, *mono); err != nil {
			log.Fatalf("convert: %v", err)
		}
	default:
		log.Fatal("one of -out, -info or -compare is required")
	}
}

func isOgg(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg", ".oga":
		return true
	}
	return false
}

// openSource decodes path with dec for Ogg input and with the registry
// decoder for its extension otherwise.
func openSource(dec vorbis.Decoder, f io.Reader, path string) (audio.Source, error) {
	if isOgg(path) {
		return dec.NewReader(f)
	}
	d, err := oggdec.NewRegistry().ForPath(path)
	if err != nil {
		return nil, err
	}
	return d.Decode(f)
}

func convert(w io.Writer, dec vorbis.Decoder, inPath, outPath string, bits int, mono bool) error {
	encode, err := encoderFor(outPath)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := openSource(dec, in, inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer src.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var sink audio.Source = src
	if mono {
		sink = audio.NewMonoMixer(src)
	}
	frames, err := encode(out, sink, bits)
	if err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "Wrote %s: %d frames, %d channel(s) at %d Hz, %d-bit\n",
		outPath, frames, sink.Channels(), sink.SampleRate(), bits)
	if r, ok := src.(*vorbis.Reader); ok {
		st := r.Stats()
		fmt.Fprintf(w, "Packets: %d (%d corrupt), waste: %d bits\n", st.Packets, st.CorruptPackets, st.WasteBits)
	}
	return out.Close()
}

type encodeFunc func(io.WriteSeeker, audio.Source, int) (int64, error)

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Encode, nil
	case ".aiff", ".aif":
		return aiff.Encode, nil
	}
	return nil, &audio.FormatError{Format: filepath.Ext(path)}
}

func printInfo(w io.Writer, dec vorbis.Decoder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := dec.Scan(f)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Serial:      %08x\n", res.Serial)
	fmt.Fprintf(w, "Channels:    %d\n", res.Channels)
	fmt.Fprintf(w, "Sample rate: %d Hz\n", res.SampleRate)
	fmt.Fprintf(w, "Bitrate:     %d nominal, %d min, %d max\n", res.BitrateNominal, res.BitrateMinimum, res.BitrateMaximum)
	fmt.Fprintf(w, "Vendor:      %s\n", res.Vendor)
	for _, c := range res.Comments {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintf(w, "Packets:     %d\n", res.Packets)
	fmt.Fprintf(w, "Samples:     %d (granule %d)\n", res.Samples, res.Granule)
	fmt.Fprintf(w, "Duration:    %v\n", res.Duration())
	fmt.Fprintf(w, "Overhead:    %d container bits, %d waste bits\n", res.ContainerBits, res.WasteBits)
	return nil
}

// compareDecode decodes path twice, with this module and with
// jfreymuth/oggvorbis, and reports the largest sample difference.
func compareDecode(w io.Writer, dec vorbis.Decoder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := dec.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	var got []float32
	buf := make([]float32, r.BufSize())
	for {
		n, err := r.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	want, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reference decoder: %w", err)
	}
	if format.Channels != r.Channels() || format.SampleRate != r.SampleRate() {
		return fmt.Errorf("format mismatch: %d ch %d Hz, reference %d ch %d Hz",
			r.Channels(), r.SampleRate(), format.Channels, format.SampleRate)
	}

	n := min(len(got), len(want))
	var maxDiff float64
	at := -1
	for i := range n {
		if d := math.Abs(float64(got[i] - want[i])); d > maxDiff {
			maxDiff, at = d, i
		}
	}

	ch := r.Channels()
	fmt.Fprintf(w, "Frames:   %d, reference %d\n", len(got)/ch, len(want)/ch)
	if at >= 0 {
		fmt.Fprintf(w, "Max diff: %.3g at frame %d channel %d\n", maxDiff, at/ch, at%ch)
	} else {
		fmt.Fprintln(w, "Max diff: 0")
	}
	return nil
}
