package worklet

const (
	// Minimum ring buffer slot count. One slot is reserved, so capacity 2 is
	// the smallest buffer that can hold an item.
	minRingCapacity = 2

	// Default number of timing samples retained by the profiler.
	defaultProfilerWindow = 256
)
