// Package dsputil provides small DSP helpers shared across the engine:
// RMS and energy measurement, value clamping, and MIDI/frequency conversion.
package dsputil

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// Reference tuning constants (A4 = MIDI note 69 at 440 Hz).
const (
	refNoteFreq        = 440.0
	refNoteNumber      = 69
	semitonesPerOctave = 12
	centsPerSemitone   = 100
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RMS returns the root-mean-square level of the signal.
// Returns 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sumSq := f64.DotProductUnsafe(x, x)
	return math.Sqrt(sumSq / float64(len(x)))
}

// Energy returns the sum of squared samples.
func Energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.DotProductUnsafe(x, x)
}

// FrequencyToMIDI returns the nearest MIDI note number for a frequency
// along with the deviation from that note in cents (-50..+50).
func FrequencyToMIDI(freq float64) (note int, cents float64) {
	if freq <= 0 {
		return 0, 0
	}
	exact := float64(refNoteNumber) + semitonesPerOctave*math.Log2(freq/refNoteFreq)
	note = int(math.Round(exact))
	cents = semitonesPerOctave * centsPerSemitone * math.Log2(freq/MIDIToFrequency(note))
	return note, cents
}

// MIDIToFrequency returns the equal-tempered frequency of a MIDI note number.
func MIDIToFrequency(note int) float64 {
	return refNoteFreq * math.Pow(2, float64(note-refNoteNumber)/semitonesPerOctave)
}

// NoteName formats a MIDI note number as a pitch name with octave, e.g. 69 -> "A4".
func NoteName(note int) string {
	if note < 0 {
		return ""
	}
	octave := note/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// SemitonesToRatio converts a pitch offset in semitones (plus cents) to a
// playback-rate ratio.
func SemitonesToRatio(semitones, cents float64) float64 {
	return math.Pow(2, (semitones+cents/centsPerSemitone)/semitonesPerOctave)
}
