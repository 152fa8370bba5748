// Package testutil provides reusable signal generators and assert helpers
// for engine tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for test scenarios.
const (
	DefaultTolerance   = 1e-10
	FrequencyTolerance = 1.0
	LevelTolerance     = 1e-6
)

// Sine generates a sine wave at the given frequency and amplitude.
func Sine(freq, sampleRate float64, length int, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

// Burst generates a buffer of the given total length that is silent except
// for a sine burst of burstLen samples starting at offset.
func Burst(freq, sampleRate float64, length, offset, burstLen int, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := 0; i < burstLen && offset+i < length; i++ {
		out[offset+i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

// Ramp generates a linear ramp from start to end.
func Ramp(start, end float64, length int) []float64 {
	out := make([]float64, length)
	if length == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(length-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [minVal, maxVal].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertSlicesClose verifies two slices are elementwise equal within tolerance.
func AssertSlicesClose(t *testing.T, want, got []float64, tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return false
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > tolerance {
			return assert.Fail(t, "slices differ",
				"at %d: want %f, got %f (tolerance %g)", i, want[i], got[i], tolerance)
		}
	}
	return true
}

// Peak returns the largest absolute sample value.
func Peak(s []float64) float64 {
	var peak float64
	for _, v := range s {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
