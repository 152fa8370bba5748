package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonefold/modkit/internal/testutil"
)

// twoBurstBuffer is one second of silence with sine bursts at 0.2s and 0.6s.
func twoBurstBuffer() *Buffer {
	const length = 44100
	samples := make([]float64, length)
	first := testutil.Burst(440, testRate, length, 8820, 6615, 0.8)
	second := testutil.Burst(440, testRate, length, 26460, 6615, 0.8)
	for i := range samples {
		samples[i] = first[i] + second[i]
	}
	return monoBuffer(samples)
}

func TestDetectOnsetsTwoBursts(t *testing.T) {
	b := twoBurstBuffer()

	slices := DetectOnsets(b, TransientOptions{})
	require.Len(t, slices, 2)

	// Each slice starts at its burst, within one analysis hop.
	assert.InDelta(t, 0.2, slices[0].StartTime, 0.03)
	assert.InDelta(t, 0.6, slices[1].StartTime, 0.03)

	// Slices tile the region from the first onset to the buffer end.
	assert.Equal(t, slices[0].EndFrame, slices[1].StartFrame)
	assert.Equal(t, b.Frames(), slices[1].EndFrame)

	for _, s := range slices {
		assert.InDelta(t, 0.8, s.PeakLevel, 0.05)
		assert.Less(t, s.StartTime, s.EndTime)
	}
}

func TestDetectOnsetsSilence(t *testing.T) {
	b := monoBuffer(make([]float64, 44100))

	slices := DetectOnsets(b, TransientOptions{})

	assert.NotNil(t, slices)
	assert.Empty(t, slices)
}

func TestDetectOnsetsShortBuffer(t *testing.T) {
	b := monoBuffer(testutil.Sine(440, testRate, 100, 0.5))

	assert.Empty(t, DetectOnsets(b, TransientOptions{}))
}

func TestDetectOnsetsSteadyToneHasNoInteriorOnsets(t *testing.T) {
	b := monoBuffer(testutil.Sine(440, testRate, 44100, 0.5))

	slices := DetectOnsets(b, TransientOptions{})

	// The tone's own attack may register once; a steady interior must not.
	assert.LessOrEqual(t, len(slices), 1)
}

func TestDetectOnsetsProgress(t *testing.T) {
	b := twoBurstBuffer()

	var calls int
	var last float64
	DetectOnsets(b, TransientOptions{Progress: func(p float64) {
		calls++
		last = p
	}})

	assert.Positive(t, calls)
	assert.InDelta(t, 1.0, last, 1e-12)
}

func TestDetectAmplitude(t *testing.T) {
	b := twoBurstBuffer()

	slices := DetectAmplitude(b, 0.1, TransientOptions{})
	require.Len(t, slices, 2)

	assert.InDelta(t, 0.2, slices[0].StartTime, 0.05)
	assert.InDelta(t, 0.35, slices[0].EndTime, 0.05)
	assert.InDelta(t, 0.6, slices[1].StartTime, 0.05)
}

func TestDetectAmplitudeOpenRegionRunsToEnd(t *testing.T) {
	// Burst continues through the final sample.
	samples := testutil.Burst(440, testRate, 44100, 30000, 14100, 0.8)
	b := monoBuffer(samples)

	slices := DetectAmplitude(b, 0.1, TransientOptions{})
	require.Len(t, slices, 1)
	assert.Equal(t, b.Frames(), slices[0].EndFrame)
}

func TestDetectAmplitudeBadThreshold(t *testing.T) {
	b := twoBurstBuffer()

	assert.Empty(t, DetectAmplitude(b, 0, TransientOptions{}))
	assert.Empty(t, DetectAmplitude(b, -1, TransientOptions{}))
}

func TestSliceEven(t *testing.T) {
	b := monoBuffer(testutil.Sine(440, testRate, 44100, 0.5))

	slices := SliceEven(b, 4)
	require.Len(t, slices, 4)

	for i, s := range slices {
		assert.Equal(t, i*11025, s.StartFrame)
		assert.Equal(t, (i+1)*11025, s.EndFrame)
	}
}

func TestSliceEvenDegenerate(t *testing.T) {
	b := monoBuffer(testutil.Sine(440, testRate, 1000, 0.5))

	assert.Empty(t, SliceEven(b, 0))
	assert.Empty(t, SliceEven(b, -1))

	// More slices than frames: empty spans are skipped.
	tiny := monoBuffer([]float64{0.1, 0.2})
	assert.Len(t, SliceEven(tiny, 4), 2)
}
