package worklet

// Timing conversions between sample counts and wall time at a given sample
// rate. Pure arithmetic, no state.

const (
	millisecondsPerSecond = 1000.0
)

// SamplesToSeconds converts a sample count to seconds at the given rate.
func SamplesToSeconds(samples int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(samples) / sampleRate
}

// SamplesToMilliseconds converts a sample count to milliseconds at the given rate.
func SamplesToMilliseconds(samples int, sampleRate float64) float64 {
	return SamplesToSeconds(samples, sampleRate) * millisecondsPerSecond
}

// SecondsToSamples converts a duration in seconds to a whole sample count,
// truncating toward zero.
func SecondsToSamples(seconds, sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}
	return int(seconds * sampleRate)
}

// MillisecondsToSamples converts a duration in milliseconds to a whole sample count.
func MillisecondsToSamples(ms, sampleRate float64) int {
	return SecondsToSamples(ms/millisecondsPerSecond, sampleRate)
}
