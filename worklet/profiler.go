package worklet

import (
	"time"
)

// Profiler keeps rolling statistics over a fixed window of timing samples.
// It is designed for the audio context: Record never allocates, and all
// storage is reserved at construction. A Profiler is not safe for concurrent
// use; each context owns its own.
type Profiler struct {
	samples []time.Duration
	next    int
	filled  int
	count   uint64
	max     time.Duration
}

// NewProfiler creates a profiler with the given rolling window size.
// A window of 0 or less uses a default size.
func NewProfiler(window int) *Profiler {
	if window <= 0 {
		window = defaultProfilerWindow
	}
	return &Profiler{samples: make([]time.Duration, window)}
}

// Record adds a timing sample.
func (p *Profiler) Record(d time.Duration) {
	p.samples[p.next] = d
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
	p.count++
	if d > p.max {
		p.max = d
	}
}

// Time measures fn and records its duration.
func (p *Profiler) Time(fn func()) {
	start := time.Now()
	fn()
	p.Record(time.Since(start))
}

// Average returns the mean duration over the rolling window, or 0 when no
// samples have been recorded.
func (p *Profiler) Average() time.Duration {
	if p.filled == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.filled; i++ {
		total += p.samples[i]
	}
	return total / time.Duration(p.filled)
}

// Max returns the largest duration seen since the last Clear.
func (p *Profiler) Max() time.Duration {
	return p.max
}

// Count returns the total number of samples recorded since the last Clear,
// including samples that have rolled out of the window.
func (p *Profiler) Count() uint64 {
	return p.count
}

// Clear resets all statistics.
func (p *Profiler) Clear() {
	p.next = 0
	p.filled = 0
	p.count = 0
	p.max = 0
}
