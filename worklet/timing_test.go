package worklet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingConversions(t *testing.T) {
	assert.InDelta(t, 1.0, SamplesToSeconds(44100, 44100), 1e-12)
	assert.InDelta(t, 500.0, SamplesToMilliseconds(22050, 44100), 1e-9)
	assert.Equal(t, 44100, SecondsToSamples(1, 44100))
	assert.Equal(t, 2205, MillisecondsToSamples(50, 44100))

	// Round trip at a non-integer rate.
	samples := SecondsToSamples(0.25, 48000)
	assert.InDelta(t, 0.25, SamplesToSeconds(samples, 48000), 1e-9)
}

func TestTimingBadRateIsZero(t *testing.T) {
	// Degenerate sample rates yield zero rather than Inf/NaN.
	assert.Zero(t, SamplesToSeconds(100, 0))
	assert.Zero(t, SamplesToMilliseconds(100, -44100))
	assert.Zero(t, SecondsToSamples(1, 0))
	assert.Zero(t, MillisecondsToSamples(10, -1))
}
