package pitch

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tonefold/modkit/internal/dsputil"
)

// Robust detection constants.
const (
	// robustMaxWindows caps the number of overlapping analysis windows.
	robustMaxWindows = 8
)

// DetectRobust runs Detect over up to eight overlapping windows, buckets the
// results by rounded MIDI note and returns the highest-confidence result from
// the strongest bucket (score = count x mean confidence). When no window is
// confidently pitched it falls back to a single detection over the full
// buffer.
func DetectRobust(samples []float64, sampleRate float64, opts Options) Result {
	opts = opts.withDefaults()
	if len(samples) < opts.WindowSize {
		return Detect(samples, sampleRate, opts)
	}

	numWindows := robustMaxWindows
	hop := (len(samples) - opts.WindowSize) / (numWindows - 1)
	if hop == 0 {
		numWindows = 1
	}

	buckets := make(map[int][]Result)
	for i := 0; i < numWindows; i++ {
		start := i * hop
		r := Detect(samples[start:start+opts.WindowSize], sampleRate, opts)
		if r.Pitched {
			buckets[r.MIDINote] = append(buckets[r.MIDINote], r)
		}
	}
	if len(buckets) == 0 {
		return Detect(samples, sampleRate, opts)
	}

	bestScore := -1.0
	bestNote := 0
	for note, results := range buckets {
		confidences := make([]float64, len(results))
		for i, r := range results {
			confidences[i] = r.Confidence
		}
		score := float64(len(results)) * stat.Mean(confidences, nil)
		if score > bestScore || (score == bestScore && note < bestNote) {
			bestScore = score
			bestNote = note
		}
	}

	best := buckets[bestNote][0]
	for _, r := range buckets[bestNote][1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

// DetectMultiple returns the primary pitch estimate followed by a synthesized
// harmonic series (2f, 3f, ...) with decaying confidence. True polyphonic
// detection is not implemented; overtone entries are derived, not measured.
func DetectMultiple(samples []float64, sampleRate float64, opts Options) []Result {
	primary := DetectRobust(samples, sampleRate, opts)
	if !primary.Pitched {
		return []Result{primary}
	}

	results := make([]Result, 0, harmonicCount)
	results = append(results, primary)
	for h := 2; h <= harmonicCount; h++ {
		freq := primary.Frequency * float64(h)
		note, cents := dsputil.FrequencyToMIDI(freq)
		results = append(results, Result{
			Frequency:  freq,
			Pitched:    true,
			MIDINote:   note,
			NoteName:   dsputil.NoteName(note),
			Cents:      cents,
			Confidence: primary.Confidence * pow(harmonicConfidenceDecay, h-1),
			RMS:        primary.RMS,
		})
	}
	return results
}

func pow(base float64, exp int) float64 {
	v := 1.0
	for i := 0; i < exp; i++ {
		v *= base
	}
	return v
}
