package pitch

import (
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/tonefold/modkit/internal/dsputil"
)

// Detection constants.
const (
	// defaultWindowSize is the analysis window in samples.
	defaultWindowSize = 2048

	// defaultMinFrequency and defaultMaxFrequency bound the period search.
	defaultMinFrequency = 50.0
	defaultMaxFrequency = 2000.0

	// defaultThreshold is the YIN CMNDF acceptance threshold.
	defaultThreshold = 0.15

	// defaultRMSFloor is the level below which input is treated as silence.
	defaultRMSFloor = 0.01

	// defaultAttackLength bounds the attack-region search in seconds.
	defaultAttackLength = 0.25

	// attackChunkSize and attackChunkHop shape the attack energy scan.
	attackChunkSize = 512
	attackChunkHop  = 256

	// fallbackConfidence is the YIN confidence below which the
	// autocorrelation fallback is consulted.
	fallbackConfidence = 0.5

	// harmonicCount is the length of the synthesized series returned by
	// DetectMultiple, fundamental included.
	harmonicCount = 3

	// harmonicConfidenceDecay scales confidence per synthesized overtone.
	harmonicConfidenceDecay = 0.5
)

// Options configures detection. The zero value selects the defaults.
type Options struct {
	// MinFrequency and MaxFrequency bound the period search range in Hz.
	MinFrequency float64
	MaxFrequency float64

	// Threshold is the YIN CMNDF acceptance threshold.
	Threshold float64

	// RMSFloor is the level below which the window counts as unpitched.
	RMSFloor float64

	// WindowSize is the analysis window in samples.
	WindowSize int

	// AttackOnly restricts analysis to the loudest region within
	// AttackLength seconds from the start of the buffer.
	AttackOnly   bool
	AttackLength float64 // seconds, 0 selects the default
}

func (o Options) withDefaults() Options {
	if o.MinFrequency <= 0 {
		o.MinFrequency = defaultMinFrequency
	}
	if o.MaxFrequency <= 0 {
		o.MaxFrequency = defaultMaxFrequency
	}
	if o.Threshold <= 0 {
		o.Threshold = defaultThreshold
	}
	if o.RMSFloor <= 0 {
		o.RMSFloor = defaultRMSFloor
	}
	if o.WindowSize <= 0 {
		o.WindowSize = defaultWindowSize
	}
	if o.AttackLength <= 0 {
		o.AttackLength = defaultAttackLength
	}
	return o
}

// Result is an immutable pitch estimate for one analysis window.
type Result struct {
	// Frequency is the detected fundamental in Hz. Only meaningful when
	// Pitched is true.
	Frequency float64

	// Pitched is false for silent or unvoiced input; the remaining fields
	// are then zero values.
	Pitched bool

	// MIDINote is the nearest equal-tempered note number.
	MIDINote int

	// NoteName is the pitch name of MIDINote, e.g. "A4".
	NoteName string

	// Cents is the deviation from MIDINote, -50..+50.
	Cents float64

	// Confidence is the detector's certainty, 0..1.
	Confidence float64

	// RMS is the level of the analyzed window.
	RMS float64
}

// Detect estimates the fundamental frequency of the sample window.
func Detect(samples []float64, sampleRate float64, opts Options) Result {
	opts = opts.withDefaults()
	if sampleRate <= 0 || len(samples) == 0 {
		return Result{}
	}

	rms := dsputil.RMS(samples)
	if rms < opts.RMSFloor {
		return Result{RMS: rms}
	}

	region := samples
	if opts.AttackOnly {
		region = loudestAttackRegion(samples, sampleRate, opts)
	}
	if len(region) > opts.WindowSize {
		region = region[:opts.WindowSize]
	}

	// Hann-window a copy; the caller's buffer stays untouched.
	windowed := make([]float64, len(region))
	copy(windowed, region)
	window.Hann(windowed)

	freq, conf := yin(windowed, sampleRate, opts)
	if conf < fallbackConfidence {
		acFreq, acConf := autocorrelate(windowed, sampleRate, opts)
		if acConf > conf {
			freq, conf = acFreq, acConf
		}
	}

	if freq <= 0 {
		return Result{RMS: rms}
	}

	note, cents := dsputil.FrequencyToMIDI(freq)
	return Result{
		Frequency:  freq,
		Pitched:    true,
		MIDINote:   note,
		NoteName:   dsputil.NoteName(note),
		Cents:      cents,
		Confidence: conf,
		RMS:        rms,
	}
}

// loudestAttackRegion scans overlapping chunks within the configured attack
// length and returns the window starting at the loudest chunk.
func loudestAttackRegion(samples []float64, sampleRate float64, opts Options) []float64 {
	attackSamples := int(opts.AttackLength * sampleRate)
	if attackSamples > len(samples) {
		attackSamples = len(samples)
	}

	bestStart := 0
	bestEnergy := -1.0
	for start := 0; start+attackChunkSize <= attackSamples; start += attackChunkHop {
		energy := dsputil.Energy(samples[start : start+attackChunkSize])
		if energy > bestEnergy {
			bestEnergy = energy
			bestStart = start
		}
	}
	return samples[bestStart:]
}

// periodRange converts the frequency bounds to a sample period search range.
func periodRange(n int, sampleRate float64, opts Options) (minPeriod, maxPeriod int) {
	minPeriod = int(sampleRate / opts.MaxFrequency)
	if minPeriod < 2 {
		minPeriod = 2
	}
	maxPeriod = int(sampleRate / opts.MinFrequency)
	if maxPeriod > n/2 {
		maxPeriod = n / 2
	}
	return minPeriod, maxPeriod
}

// yin runs the YIN difference-function estimator and returns the detected
// frequency and confidence, or (0, 0) when no candidate passes.
func yin(x []float64, sampleRate float64, opts Options) (freq, confidence float64) {
	minPeriod, maxPeriod := periodRange(len(x), sampleRate, opts)
	if maxPeriod <= minPeriod {
		return 0, 0
	}

	// Difference function d(tau) over the first half of the window:
	// d(tau) = sum_i (x[i]-x[i+tau])^2
	//        = |x0|^2 + |xtau|^2 - 2*<x0, xtau>
	w := len(x) - maxPeriod
	d := make([]float64, maxPeriod+1)
	head := x[:w]
	headEnergy := f64.DotProductUnsafe(head, head)
	for tau := 1; tau <= maxPeriod; tau++ {
		lagged := x[tau : tau+w]
		d[tau] = headEnergy + f64.DotProductUnsafe(lagged, lagged) -
			2*f64.DotProductUnsafe(head, lagged)
	}

	// Cumulative-mean-normalized difference.
	cmndf := make([]float64, maxPeriod+1)
	cmndf[0] = 1
	var runningSum float64
	for tau := 1; tau <= maxPeriod; tau++ {
		runningSum += d[tau]
		if runningSum == 0 {
			cmndf[tau] = 1
		} else {
			cmndf[tau] = d[tau] * float64(tau) / runningSum
		}
	}

	// First dip under the threshold, then walk to its local minimum.
	tau := -1
	for candidate := minPeriod; candidate <= maxPeriod; candidate++ {
		if cmndf[candidate] < opts.Threshold {
			tau = candidate
			for tau+1 <= maxPeriod && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			break
		}
	}
	if tau < 0 {
		return 0, 0
	}

	refined, minValue := parabolicMin(cmndf, tau)
	if refined <= 0 {
		return 0, 0
	}
	return sampleRate / refined, dsputil.Clamp(1-minValue, 0, 1)
}

// autocorrelate is the fallback estimator: normalized autocorrelation
// maximized over the period search range.
func autocorrelate(x []float64, sampleRate float64, opts Options) (freq, confidence float64) {
	minPeriod, maxPeriod := periodRange(len(x), sampleRate, opts)
	if maxPeriod <= minPeriod {
		return 0, 0
	}

	w := len(x) - maxPeriod
	head := x[:w]
	norm := f64.DotProductUnsafe(head, head)
	if norm == 0 {
		return 0, 0
	}

	corr := make([]float64, maxPeriod+1)
	bestTau := -1
	bestCorr := 0.0
	for tau := minPeriod; tau <= maxPeriod; tau++ {
		corr[tau] = f64.DotProductUnsafe(head, x[tau:tau+w]) / norm
		if corr[tau] > bestCorr {
			bestCorr = corr[tau]
			bestTau = tau
		}
	}
	if bestTau < 0 {
		return 0, 0
	}

	refined, peak := parabolicMax(corr, bestTau, minPeriod, maxPeriod)
	if refined <= 0 {
		return 0, 0
	}
	return sampleRate / refined, dsputil.Clamp(peak, 0, 1)
}

// parabolicMin refines the position of a local minimum of f at index i using
// the two neighboring values. Returns the refined position and value.
func parabolicMin(f []float64, i int) (pos, value float64) {
	if i <= 0 || i >= len(f)-1 {
		return float64(i), f[i]
	}
	y0, y1, y2 := f[i-1], f[i], f[i+1]
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return float64(i), y1
	}
	delta := (y0 - y2) / (2 * denom)
	return float64(i) + delta, y1 - (y0-y2)*delta/4
}

// parabolicMax refines the position of a local maximum of f at index i,
// staying within [lo, hi].
func parabolicMax(f []float64, i, lo, hi int) (pos, value float64) {
	if i <= lo || i >= hi {
		return float64(i), f[i]
	}
	y0, y1, y2 := f[i-1], f[i], f[i+1]
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return float64(i), y1
	}
	delta := (y2 - y0) / (2 * -denom)
	return float64(i) + delta, y1 + (y2-y0)*delta/4
}
