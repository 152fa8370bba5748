// Command modscan analyzes an audio file: decoded format, RMS level, pitch
// and detected transient slices, with optional slice export to WAV files.
//
// Usage:
//
//	modscan [flags] input.{wav,aiff,mp3,ogg}
//
// Flags:
//
//	-sensitivity   transient detection sensitivity 0..1 (default 0.5)
//	-export DIR    write each detected slice as a WAV file into DIR
//	-robust        use multi-window robust pitch voting
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tonefold/modkit/decode"
	"github.com/tonefold/modkit/pitch"
	"github.com/tonefold/modkit/sample"
)

func main() {
	sensitivity := flag.Float64("sensitivity", 0.5, "transient detection sensitivity (0..1)")
	exportDir := flag.String("export", "", "directory to export detected slices as WAV files")
	robust := flag.Bool("robust", false, "use multi-window robust pitch detection")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: modscan [flags] <input file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := run(path, *sensitivity, *exportDir, *robust); err != nil {
		log.Fatalf("modscan: %v", err)
	}
}

func run(path string, sensitivity float64, exportDir string, robust bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	format := decode.DetectFormat(data)
	buf, err := decode.Bytes(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	fmt.Printf("file:        %s\n", filepath.Base(path))
	fmt.Printf("format:      %s\n", format)
	fmt.Printf("sample rate: %.0f Hz\n", buf.SampleRate)
	fmt.Printf("channels:    %d\n", buf.NumChannels())
	fmt.Printf("duration:    %.3f s (%d frames)\n", buf.Duration(), buf.Frames())

	reportPitch(buf, robust)

	slices := sample.DetectOnsets(buf, sample.TransientOptions{Sensitivity: sensitivity})
	fmt.Printf("transients:  %d\n", len(slices))
	for _, s := range slices {
		fmt.Printf("  %-10s %8.3fs - %8.3fs  peak %.3f\n", s.ID, s.StartTime, s.EndTime, s.PeakLevel)
	}

	if exportDir != "" && len(slices) > 0 {
		if err := exportSlices(buf, slices, exportDir); err != nil {
			return err
		}
		fmt.Printf("exported:    %d slices to %s\n", len(slices), exportDir)
	}
	return nil
}

func reportPitch(buf *sample.Buffer, robust bool) {
	mono := buf.Mono()

	var result pitch.Result
	if robust {
		result = pitch.DetectRobust(mono, buf.SampleRate, pitch.Options{})
	} else {
		result = pitch.Detect(mono, buf.SampleRate, pitch.Options{})
	}

	fmt.Printf("rms:         %.4f\n", result.RMS)
	if !result.Pitched {
		fmt.Println("pitch:       unpitched")
		return
	}
	fmt.Printf("pitch:       %.2f Hz (%s %+.0f cents, midi %d, confidence %.2f)\n",
		result.Frequency, result.NoteName, result.Cents, result.MIDINote, result.Confidence)
}
