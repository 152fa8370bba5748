package worklet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerRollingStats(t *testing.T) {
	p := NewProfiler(4)

	for _, d := range []time.Duration{
		1 * time.Millisecond,
		2 * time.Millisecond,
		3 * time.Millisecond,
		4 * time.Millisecond,
	} {
		p.Record(d)
	}

	assert.Equal(t, 2500*time.Microsecond, p.Average())
	assert.Equal(t, 4*time.Millisecond, p.Max())
	assert.Equal(t, uint64(4), p.Count())
}

func TestProfilerWindowRollsOver(t *testing.T) {
	p := NewProfiler(2)

	p.Record(100 * time.Millisecond)
	p.Record(10 * time.Millisecond)
	p.Record(10 * time.Millisecond)

	// The 100ms sample has rolled out of the window but still counts for Max.
	assert.Equal(t, 10*time.Millisecond, p.Average())
	assert.Equal(t, 100*time.Millisecond, p.Max())
	assert.Equal(t, uint64(3), p.Count())
}

func TestProfilerPartialWindow(t *testing.T) {
	p := NewProfiler(8)
	assert.Zero(t, p.Average())

	p.Record(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, p.Average())
}

func TestProfilerClear(t *testing.T) {
	p := NewProfiler(4)
	p.Record(time.Millisecond)
	p.Clear()

	assert.Zero(t, p.Average())
	assert.Zero(t, p.Max())
	assert.Zero(t, p.Count())
}

func TestProfilerTime(t *testing.T) {
	p := NewProfiler(0) // default window
	p.Time(func() { time.Sleep(time.Millisecond) })

	require.Equal(t, uint64(1), p.Count())
	assert.GreaterOrEqual(t, p.Max(), time.Millisecond)
}
