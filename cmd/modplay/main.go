// Command modplay plays an audio file through the engine over portaudio,
// with optional time-stretch and pitch-shift applied before playback.
//
// Usage:
//
//	modplay [flags] input.{wav,aiff,mp3,ogg}
//
// Flags:
//
//	-stretch R     time-stretch ratio (1 = unchanged)
//	-pitch N       pitch shift in semitones
//	-slices        slice by transients and play the slices in order
//	-tempo BPM     session tempo for synced LFOs (default 120)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/tonefold/modkit"
	"github.com/tonefold/modkit/sample"
	"github.com/tonefold/modkit/worklet"
)

func main() {
	stretch := flag.Float64("stretch", 1, "time-stretch ratio")
	pitchShift := flag.Float64("pitch", 0, "pitch shift in semitones")
	useSlices := flag.Bool("slices", false, "slice by transients and play slices in order")
	tempo := flag.Float64("tempo", modkit.DefaultTempo, "session tempo in BPM")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: modplay [flags] <input file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *stretch, *pitchShift, *useSlices, *tempo); err != nil {
		log.Fatalf("modplay: %v", err)
	}
}

func run(path string, stretch, pitchShift float64, useSlices bool, tempo float64) error {
	cfg := modkit.DefaultConfig()
	cfg.Tempo = tempo
	engine, controller, err := modkit.New(cfg)
	if err != nil {
		return err
	}

	loaded, err := controller.LoadSampleFile("input", path)
	if err != nil {
		return err
	}
	log.Printf("loaded %s: %.0f Hz, %d channels, %.3f s",
		loaded.Metadata.Name, loaded.Metadata.SampleRate, loaded.Metadata.Channels, loaded.Metadata.Duration)

	buf := loaded.Buffer
	if stretch != 1 {
		log.Printf("stretching by %.2fx", stretch)
		if buf, err = sample.StretchGranular(buf, stretch, sample.StretchOptions{}); err != nil {
			return err
		}
	}
	if pitchShift != 0 {
		log.Printf("shifting by %+.1f semitones", pitchShift)
		if buf, err = sample.PitchShift(buf, pitchShift, 0, sample.StretchOptions{}); err != nil {
			return err
		}
	}

	if buf != loaded.Buffer {
		// Register the processed buffer so triggers play the processed audio.
		err := controller.Cache().Put(&sample.LoadedSample{
			Metadata: sample.Metadata{
				ID:         "input",
				Name:       loaded.Metadata.Name,
				SampleRate: buf.SampleRate,
				Duration:   buf.Duration(),
				Channels:   buf.NumChannels(),
			},
			Buffer: buf,
		})
		if err != nil {
			return err
		}
	}

	if useSlices {
		slices := sample.DetectOnsets(buf, sample.TransientOptions{})
		if len(slices) == 0 {
			log.Print("no transients found, playing whole buffer")
		} else {
			log.Printf("playing %d slices", len(slices))
			if err := controller.Cache().SetSlices("input", slices); err != nil {
				return err
			}
			return play(engine, controller, buf, slices)
		}
	}
	return play(engine, controller, buf, nil)
}

// play opens the default output stream and drives the engine callback until
// the scheduled audio has finished.
func play(engine *modkit.Engine, controller *modkit.Controller, buf *sample.Buffer, slices []sample.Slice) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	cfg := modkit.DefaultConfig()
	block := make([][]float64, cfg.Channels)
	for ch := range block {
		block[ch] = make([]float64, cfg.BlockSize)
	}

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.BlockSize,
		func(out [][]float32) {
			engine.ProcessBlock(block)
			for ch := range out {
				src := block[ch%len(block)]
				for i := range out[ch] {
					out[ch][i] = float32(src[i])
				}
			}
		})
	if err != nil {
		return err
	}
	defer stream.Close()

	totalFrames := int64(buf.Frames())
	if len(slices) == 0 {
		if _, err := controller.TriggerSample(0, worklet.TriggerPayload{SampleID: "input", Velocity: 1}, 0); err != nil {
			return err
		}
	} else {
		// Schedule each slice back to back on the engine frame timeline.
		var tick int64
		for _, s := range slices {
			payload := worklet.TriggerPayload{SampleID: "input", SliceID: s.ID, Velocity: 1}
			if _, err := controller.TriggerSample(tick, payload, 0); err != nil {
				return err
			}
			tick += int64(s.EndFrame - s.StartFrame)
		}
		totalFrames = tick
	}

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	// Tail covers the envelope release after the last voice ends.
	deadline := time.Now().Add(time.Duration(float64(totalFrames)/cfg.SampleRate*float64(time.Second)) + time.Second)
	for time.Now().Before(deadline) {
		if msg, ok := controller.PollMessage(); ok && msg.Type == worklet.MessageError {
			log.Printf("engine error in %s: %s", msg.Error.Op, msg.Error.Message)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}
