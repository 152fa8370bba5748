package main

import (
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tonefold/modkit/sample"
)

const exportBitDepth = 16

// exportSlices writes each slice region as a 16-bit PCM WAV file named after
// the slice id.
func exportSlices(buf *sample.Buffer, slices []sample.Slice, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range slices {
		region, err := sample.ExtractSlice(buf, s)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", s.ID, err)
		}
		path := filepath.Join(dir, s.ID+".wav")
		if err := writeWAV(path, region); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// writeWAV encodes a buffer as 16-bit PCM.
func writeWAV(path string, buf *sample.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	channels := buf.NumChannels()
	format := &goaudio.Format{
		NumChannels: channels,
		SampleRate:  int(buf.SampleRate),
	}
	enc := wav.NewEncoder(f, format.SampleRate, exportBitDepth, channels, 1)

	frames := buf.Frames()
	intBuf := &goaudio.IntBuffer{
		Data:           make([]int, frames*channels),
		Format:         format,
		SourceBitDepth: exportBitDepth,
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := buf.Data[ch][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			intBuf.Data[i*channels+ch] = int(v * 32767)
		}
	}

	if err := enc.Write(intBuf); err != nil {
		return err
	}
	return enc.Close()
}
