package sample

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/tonefold/modkit/internal/dsputil"
)

// Transient detection constants.
const (
	defaultTransientWindow = 1024
	defaultTransientHop    = 512
	defaultMinSpacing      = 0.05 // seconds between onsets
	defaultSensitivity     = 0.5

	// onsetRiseScale converts (1 - sensitivity) into the required
	// normalized energy jump between neighboring windows.
	onsetRiseScale = 0.25

	// onsetFloorLow and onsetFloorHigh bound the absolute energy threshold
	// as a fraction of the maximum window energy across sensitivity.
	onsetFloorLow  = 0.05
	onsetFloorHigh = 0.5

	// amplitudeCloseFraction closes an open amplitude slice when RMS drops
	// below this fraction of the opening threshold.
	amplitudeCloseFraction = 0.1

	// progressInterval is how many windows are scanned between progress
	// callbacks and scheduler yields.
	progressInterval = 256
)

// TransientOptions configures onset and amplitude detection. The zero value
// selects the defaults.
type TransientOptions struct {
	// Sensitivity in [0, 1]: higher finds more onsets. Default 0.5.
	Sensitivity float64

	// WindowSize and HopSize shape the short-time energy scan, in samples.
	WindowSize int
	HopSize    int

	// MinSpacing is the minimum distance between onsets in seconds.
	MinSpacing float64

	// Progress, when set, receives completion in [0, 1] during long scans.
	Progress func(float64)
}

func (o TransientOptions) withDefaults() TransientOptions {
	if o.Sensitivity <= 0 {
		o.Sensitivity = defaultSensitivity
	}
	o.Sensitivity = dsputil.Clamp(o.Sensitivity, 0, 1)
	if o.WindowSize <= 0 {
		o.WindowSize = defaultTransientWindow
	}
	if o.HopSize <= 0 {
		o.HopSize = defaultTransientHop
	}
	if o.MinSpacing <= 0 {
		o.MinSpacing = defaultMinSpacing
	}
	return o
}

// DetectOnsets finds transients by scanning short-time energy in overlapping
// windows and flagging frames where the energy both jumps relative to the
// previous window and exceeds a sensitivity-scaled fraction of the maximum.
// Slices span consecutive onsets; the last slice runs to the buffer end.
// A buffer with no detectable transients yields an empty (non-nil) list,
// which is a valid result, not an error.
func DetectOnsets(b *Buffer, opts TransientOptions) []Slice {
	opts = opts.withDefaults()
	mono := b.Mono()
	if len(mono) < opts.WindowSize {
		return []Slice{}
	}

	numWindows := 1 + (len(mono)-opts.WindowSize)/opts.HopSize
	energies := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		start := i * opts.HopSize
		energies[i] = dsputil.Energy(mono[start : start+opts.WindowSize])

		if i%progressInterval == progressInterval-1 {
			if opts.Progress != nil {
				opts.Progress(float64(i) / float64(numWindows))
			}
			runtime.Gosched()
		}
	}

	maxEnergy := floats.Max(energies)
	if maxEnergy <= 0 {
		return []Slice{}
	}

	absThreshold := maxEnergy * (onsetFloorLow + (onsetFloorHigh-onsetFloorLow)*(1-opts.Sensitivity))
	riseThreshold := (1 - opts.Sensitivity) * onsetRiseScale
	minSpacingFrames := int(opts.MinSpacing * b.SampleRate)

	var onsets []int
	lastOnset := -minSpacingFrames
	for i := 1; i < numWindows; i++ {
		rise := (energies[i] - energies[i-1]) / maxEnergy
		frame := i * opts.HopSize
		if rise > riseThreshold && energies[i] > absThreshold && frame-lastOnset >= minSpacingFrames {
			onsets = append(onsets, frame)
			lastOnset = frame
		}
	}

	if opts.Progress != nil {
		opts.Progress(1)
	}
	return slicesFromOnsets(b, mono, onsets)
}

// slicesFromOnsets builds the slice list spanning consecutive onsets.
func slicesFromOnsets(b *Buffer, mono []float64, onsets []int) []Slice {
	slices := make([]Slice, 0, len(onsets))
	for i, start := range onsets {
		end := len(mono)
		if i+1 < len(onsets) {
			end = onsets[i+1]
		}
		slices = append(slices, newSlice(b, mono, len(slices), start, end))
	}
	return slices
}

func newSlice(b *Buffer, mono []float64, index, start, end int) Slice {
	var peak float64
	for _, v := range mono[start:end] {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return Slice{
		ID:         fmt.Sprintf("slice-%d", index),
		StartFrame: start,
		EndFrame:   end,
		StartTime:  float64(start) / b.SampleRate,
		EndTime:    float64(end) / b.SampleRate,
		PeakLevel:  peak,
	}
}

// DetectAmplitude finds regions by tracking RMS in fixed windows: a slice
// opens when RMS crosses above threshold (respecting the minimum spacing
// since the previous close) and closes when RMS drops below a tenth of the
// threshold, tracking the peak level while open.
func DetectAmplitude(b *Buffer, threshold float64, opts TransientOptions) []Slice {
	opts = opts.withDefaults()
	mono := b.Mono()
	if len(mono) < opts.WindowSize || threshold <= 0 {
		return []Slice{}
	}

	closeThreshold := threshold * amplitudeCloseFraction
	minSpacingFrames := int(opts.MinSpacing * b.SampleRate)

	slices := make([]Slice, 0)
	open := false
	openStart := 0
	lastClose := -minSpacingFrames

	for start := 0; start+opts.WindowSize <= len(mono); start += opts.WindowSize {
		rms := dsputil.RMS(mono[start : start+opts.WindowSize])
		switch {
		case !open && rms > threshold && start-lastClose >= minSpacingFrames:
			open = true
			openStart = start
		case open && rms < closeThreshold:
			end := start + opts.WindowSize
			slices = append(slices, newSlice(b, mono, len(slices), openStart, end))
			open = false
			lastClose = end
		}
	}
	if open {
		slices = append(slices, newSlice(b, mono, len(slices), openStart, len(mono)))
	}
	return slices
}

// SliceEven divides the buffer into n equal slices, independent of content.
func SliceEven(b *Buffer, n int) []Slice {
	if n <= 0 || b.Frames() == 0 {
		return []Slice{}
	}
	mono := b.Mono()
	slices := make([]Slice, 0, n)
	frames := b.Frames()
	for i := 0; i < n; i++ {
		start := i * frames / n
		end := (i + 1) * frames / n
		if end <= start {
			continue
		}
		slices = append(slices, newSlice(b, mono, len(slices), start, end))
	}
	return slices
}
