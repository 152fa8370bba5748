package sample

import (
	"math"
)

// Waveform display constants.
const (
	// DefaultWaveformPoints is the summary resolution used when the caller
	// passes a non-positive point count.
	DefaultWaveformPoints = 1024
)

// Waveform is a fixed-resolution display summary of a buffer: per-bucket
// signed extremes and absolute peak over the mono mixdown.
type Waveform struct {
	Min  []float64
	Max  []float64
	Peak []float64
}

// Points returns the summary resolution.
func (w *Waveform) Points() int {
	return len(w.Peak)
}

// Summarize downsamples the buffer's mono mixdown to the given number of
// points, keeping the min, max and absolute peak of every bucket.
func Summarize(b *Buffer, points int) *Waveform {
	if points <= 0 {
		points = DefaultWaveformPoints
	}

	mono := b.Mono()
	if len(mono) == 0 {
		return &Waveform{
			Min:  make([]float64, points),
			Max:  make([]float64, points),
			Peak: make([]float64, points),
		}
	}
	if points > len(mono) {
		points = len(mono)
	}

	w := &Waveform{
		Min:  make([]float64, points),
		Max:  make([]float64, points),
		Peak: make([]float64, points),
	}

	bucketSize := float64(len(mono)) / float64(points)
	for p := 0; p < points; p++ {
		start := int(float64(p) * bucketSize)
		end := int(float64(p+1) * bucketSize)
		if end > len(mono) {
			end = len(mono)
		}
		if end <= start {
			end = start + 1
		}

		lo, hi := mono[start], mono[start]
		for _, v := range mono[start:end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		w.Min[p] = lo
		w.Max[p] = hi
		w.Peak[p] = math.Max(math.Abs(lo), math.Abs(hi))
	}
	return w
}
