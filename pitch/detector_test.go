package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonefold/modkit/internal/testutil"
)

const sampleRate = 44100.0

func TestDetectPureSine440(t *testing.T) {
	samples := testutil.Sine(440, sampleRate, 4096, 0.5)

	r := Detect(samples, sampleRate, Options{})

	require.True(t, r.Pitched)
	assert.InDelta(t, 440.0, r.Frequency, 1.0)
	assert.Equal(t, 69, r.MIDINote)
	assert.Equal(t, "A4", r.NoteName)
	assert.Greater(t, r.Confidence, 0.9)
	assert.InDelta(t, 0.0, r.Cents, 5.0)
}

func TestDetectSilenceIsUnpitched(t *testing.T) {
	samples := make([]float64, 4096)

	r := Detect(samples, sampleRate, Options{})

	assert.False(t, r.Pitched)
	assert.Zero(t, r.Frequency)
	assert.Zero(t, r.Confidence)
}

func TestDetectLowLevelNoiseIsUnpitched(t *testing.T) {
	samples := testutil.Sine(440, sampleRate, 4096, 0.001)

	r := Detect(samples, sampleRate, Options{RMSFloor: 0.01})

	assert.False(t, r.Pitched, "below the RMS floor input counts as silence")
	assert.Greater(t, r.RMS, 0.0)
}

func TestDetectVariousFrequencies(t *testing.T) {
	tests := []struct {
		freq float64
		note int
		name string
	}{
		{110, 45, "A2"},
		{261.63, 60, "C4"},
		{880, 81, "A5"},
		{1567.98, 91, "G6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := testutil.Sine(tt.freq, sampleRate, 8192, 0.5)
			r := Detect(samples, sampleRate, Options{})

			require.True(t, r.Pitched, "%v Hz must be pitched", tt.freq)
			assert.InDelta(t, tt.freq, r.Frequency, tt.freq*0.01)
			assert.Equal(t, tt.note, r.MIDINote)
			assert.Equal(t, tt.name, r.NoteName)
		})
	}
}

func TestDetectDetuned(t *testing.T) {
	// 25 cents above A4.
	freq := 440 * math.Pow(2, 25.0/1200.0)
	samples := testutil.Sine(freq, sampleRate, 8192, 0.5)

	r := Detect(samples, sampleRate, Options{})

	require.True(t, r.Pitched)
	assert.Equal(t, 69, r.MIDINote)
	assert.InDelta(t, 25.0, r.Cents, 8.0)
}

func TestDetectAttackOnly(t *testing.T) {
	// Quiet leading region followed by a loud tone burst; attack-only mode
	// must lock onto the loud region.
	lead := testutil.Sine(220, sampleRate, 2048, 0.02)
	burst := testutil.Sine(660, sampleRate, 6144, 0.8)
	samples := append(lead, burst...)

	r := Detect(samples, sampleRate, Options{AttackOnly: true, AttackLength: 0.2})

	require.True(t, r.Pitched)
	assert.InDelta(t, 660.0, r.Frequency, 7.0)
}

func TestDetectRobustAgreesOnSteadyTone(t *testing.T) {
	samples := testutil.Sine(440, sampleRate, 44100, 0.5)

	r := DetectRobust(samples, sampleRate, Options{})

	require.True(t, r.Pitched)
	assert.Equal(t, 69, r.MIDINote)
	assert.Greater(t, r.Confidence, 0.9)
}

func TestDetectRobustIgnoresOutlierWindow(t *testing.T) {
	// Seven windows of A4 and a transient of G6 in the middle; majority
	// voting must settle on A4.
	a4 := testutil.Sine(440, sampleRate, 44100, 0.5)
	outlier := testutil.Sine(1568, sampleRate, 3000, 0.5)
	copy(a4[20000:], outlier)

	r := DetectRobust(a4, sampleRate, Options{})

	require.True(t, r.Pitched)
	assert.Equal(t, 69, r.MIDINote)
}

func TestDetectRobustSilenceFallsBack(t *testing.T) {
	samples := make([]float64, 44100)

	r := DetectRobust(samples, sampleRate, Options{})

	assert.False(t, r.Pitched)
}

func TestDetectMultipleHarmonicSeries(t *testing.T) {
	samples := testutil.Sine(440, sampleRate, 16384, 0.5)

	results := DetectMultiple(samples, sampleRate, Options{})

	require.Len(t, results, 3)
	assert.InDelta(t, 440.0, results[0].Frequency, 1.0)
	assert.InDelta(t, 880.0, results[1].Frequency, 2.0)
	assert.InDelta(t, 1320.0, results[2].Frequency, 3.0)

	// Synthesized overtones carry decaying confidence.
	assert.Greater(t, results[0].Confidence, results[1].Confidence)
	assert.Greater(t, results[1].Confidence, results[2].Confidence)
}

func TestDetectMultipleUnpitched(t *testing.T) {
	results := DetectMultiple(make([]float64, 8192), sampleRate, Options{})

	require.Len(t, results, 1)
	assert.False(t, results[0].Pitched)
}

func TestDetectShortBuffer(t *testing.T) {
	samples := testutil.Sine(440, sampleRate, 256, 0.5)

	// Must not panic; a window too short for the period range may simply
	// come back unpitched.
	r := Detect(samples, sampleRate, Options{})
	_ = r.Pitched
}
