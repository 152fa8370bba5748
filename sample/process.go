package sample

import (
	"fmt"
	"math"
	"runtime"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/tonefold/modkit/internal/dsputil"
)

// Processing constants.
const (
	defaultGrainSizeMs = 50.0
	defaultOverlap     = 0.5
	maxOverlap         = 0.95

	// grainProgressInterval is how many grains are written between
	// progress callbacks and scheduler yields.
	grainProgressInterval = 64
)

// StretchOptions configures granular time-stretching. The zero value selects
// the defaults.
type StretchOptions struct {
	// GrainSizeMs is the grain length in milliseconds.
	GrainSizeMs float64

	// Overlap in [0, 0.95] is the fraction of each grain shared with its
	// neighbor. Overlapping grains are summed under the Hann window, not
	// averaged, so overlaps beyond 0.5 raise the output level relative to
	// the source.
	Overlap float64

	// Progress, when set, receives completion in [0, 1].
	Progress func(float64)
}

func (o StretchOptions) withDefaults() StretchOptions {
	if o.GrainSizeMs <= 0 {
		o.GrainSizeMs = defaultGrainSizeMs
	}
	if o.Overlap <= 0 {
		o.Overlap = defaultOverlap
	}
	o.Overlap = dsputil.Clamp(o.Overlap, 0, maxOverlap)
	return o
}

// StretchSimple resamples the buffer by linear interpolation: the output is
// ratio times longer and the pitch shifts with it. Pair with PitchShift for
// duration-preserving changes.
func StretchSimple(b *Buffer, ratio float64) (*Buffer, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("%w: stretch ratio %v", ErrInvalidRatio, ratio)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	inFrames := b.Frames()
	outFrames := int(math.Round(float64(inFrames) * ratio))
	out := NewBuffer(b.NumChannels(), outFrames, b.SampleRate)

	step := 1 / ratio
	for ch, src := range b.Data {
		dst := out.Data[ch]
		for i := range dst {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= inFrames-1 {
				dst[i] = src[inFrames-1]
				continue
			}
			frac := pos - float64(idx)
			dst[i] = src[idx]*(1-frac) + src[idx+1]*frac
		}
	}
	return out, nil
}

// StretchGranular time-stretches by Hann-windowed overlap-add: grains are
// written at a fixed hop while the read position advances at hop/ratio, so
// the output is ratio times longer at the original pitch. Overlapping grains
// are summed without a normalization pass.
func StretchGranular(b *Buffer, ratio float64, opts StretchOptions) (*Buffer, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("%w: stretch ratio %v", ErrInvalidRatio, ratio)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	grainSize := int(opts.GrainSizeMs / 1000 * b.SampleRate)
	if grainSize < 2 {
		grainSize = 2
	}
	inFrames := b.Frames()
	if grainSize > inFrames {
		grainSize = inFrames
	}
	hopSize := int(float64(grainSize) * (1 - opts.Overlap))
	if hopSize < 1 {
		hopSize = 1
	}

	// Hann coefficients for one grain.
	grainWindow := make([]float64, grainSize)
	for i := range grainWindow {
		grainWindow[i] = 1
	}
	window.Hann(grainWindow)

	outFrames := int(math.Round(float64(inFrames) * ratio))
	out := NewBuffer(b.NumChannels(), outFrames, b.SampleRate)

	numGrains := 0
	if outFrames > 0 {
		numGrains = 1 + (outFrames-1)/hopSize
	}

	readStep := float64(hopSize) / ratio
	for g := 0; g < numGrains; g++ {
		writePos := g * hopSize
		readPos := int(float64(g) * readStep)
		if readPos+grainSize > inFrames {
			readPos = inFrames - grainSize
		}

		for ch, src := range b.Data {
			dst := out.Data[ch]
			for i := 0; i < grainSize && writePos+i < outFrames; i++ {
				dst[writePos+i] += src[readPos+i] * grainWindow[i]
			}
		}

		if g%grainProgressInterval == grainProgressInterval-1 {
			if opts.Progress != nil {
				opts.Progress(float64(g) / float64(numGrains))
			}
			runtime.Gosched()
		}
	}

	if opts.Progress != nil {
		opts.Progress(1)
	}
	return out, nil
}

// PitchShift shifts pitch by semitones plus cents while preserving duration:
// a granular stretch by the pitch ratio followed by the counter-resample.
// Time-varying pitch is out of scope; the shift is constant over the buffer.
func PitchShift(b *Buffer, semitones, cents float64, opts StretchOptions) (*Buffer, error) {
	ratio := dsputil.SemitonesToRatio(semitones, cents)
	if ratio == 1 {
		return b.Clone(), nil
	}

	stretched, err := StretchGranular(b, ratio, opts)
	if err != nil {
		return nil, err
	}
	return StretchSimple(stretched, 1/ratio)
}

// Reverse returns a sample-index mirrored copy of the buffer.
func Reverse(b *Buffer) *Buffer {
	out := b.Clone()
	for _, channel := range out.Data {
		floats.Reverse(channel)
	}
	return out
}

// Normalize scales all channels uniformly so the buffer peak matches
// targetPeak. A silent buffer is returned unchanged.
func Normalize(b *Buffer, targetPeak float64) *Buffer {
	var peak float64
	for _, channel := range b.Data {
		for _, v := range channel {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}

	out := b.Clone()
	if peak == 0 || targetPeak <= 0 {
		return out
	}

	gain := targetPeak / peak
	for _, channel := range out.Data {
		f64.Scale(channel, channel, gain)
	}
	return out
}

// ExtractSlice copies the slice region into a new buffer.
func ExtractSlice(b *Buffer, s Slice) (*Buffer, error) {
	if s.StartFrame < 0 || s.EndFrame > b.Frames() || s.StartFrame >= s.EndFrame {
		return nil, fmt.Errorf("%w: [%d, %d) of %d frames", ErrInvalidSlice,
			s.StartFrame, s.EndFrame, b.Frames())
	}

	out := NewBuffer(b.NumChannels(), s.EndFrame-s.StartFrame, b.SampleRate)
	for ch, src := range b.Data {
		copy(out.Data[ch], src[s.StartFrame:s.EndFrame])
	}
	return out, nil
}

// ApplyFades returns a copy with linear gain ramps over the first fadeIn and
// last fadeOut seconds.
func ApplyFades(b *Buffer, fadeIn, fadeOut float64) *Buffer {
	out := b.Clone()
	frames := out.Frames()

	fadeInFrames := int(fadeIn * b.SampleRate)
	if fadeInFrames > frames {
		fadeInFrames = frames
	}
	fadeOutFrames := int(fadeOut * b.SampleRate)
	if fadeOutFrames > frames {
		fadeOutFrames = frames
	}

	for _, channel := range out.Data {
		for i := 0; i < fadeInFrames; i++ {
			channel[i] *= float64(i) / float64(fadeInFrames)
		}
		for i := 0; i < fadeOutFrames; i++ {
			channel[frames-1-i] *= float64(i) / float64(fadeOutFrames)
		}
	}
	return out
}
