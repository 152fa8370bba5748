package sample

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonefold/modkit/internal/testutil"
)

// countingDecoder ignores its input and returns a fixed one-second sine,
// counting how many times it actually decoded.
func countingDecoder(calls *atomic.Int64, fail error) DecodeFunc {
	return func(data []byte) (*Buffer, error) {
		calls.Add(1)
		if fail != nil {
			return nil, fail
		}
		return monoBuffer(testutil.Sine(440, testRate, 44100, 0.5)), nil
	}
}

func TestCacheLoadAndGet(t *testing.T) {
	var calls atomic.Int64
	c := NewCache(countingDecoder(&calls, nil))

	s, err := c.LoadFromBytes("kick", "kick.wav", []byte("encoded"))
	require.NoError(t, err)
	assert.Equal(t, "kick", s.Metadata.ID)
	assert.Equal(t, "kick.wav", s.Metadata.Name)
	assert.InDelta(t, 1.0, s.Metadata.Duration, 1e-9)
	assert.Equal(t, 1, s.Metadata.Channels)
	require.NotNil(t, s.Waveform)
	assert.Equal(t, DefaultWaveformPoints, s.Waveform.Points())

	got, err := c.Get("kick")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.True(t, c.Has("kick"))
	assert.Equal(t, 1, c.Len())
}

func TestCacheSecondLoadSkipsDecode(t *testing.T) {
	var calls atomic.Int64
	c := NewCache(countingDecoder(&calls, nil))

	first, err := c.LoadFromBytes("snare", "snare", []byte("a"))
	require.NoError(t, err)
	second, err := c.LoadFromBytes("snare", "snare", []byte("b"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestCacheConcurrentLoadsShareOneDecode(t *testing.T) {
	var calls atomic.Int64
	gate := make(chan struct{})
	c := NewCache(func(data []byte) (*Buffer, error) {
		calls.Add(1)
		<-gate
		return monoBuffer(testutil.Sine(440, testRate, 4410, 0.5)), nil
	})

	const loaders = 8
	results := make([]*LoadedSample, loaders)
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(loaders)
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			s, err := c.LoadFromBytes("shared", "shared", nil)
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	started.Wait()
	// Give every loader time to attach to the in-flight decode.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 1; i < loaders; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestCacheFailedLoadIsNotCached(t *testing.T) {
	var calls atomic.Int64
	decodeErr := errors.New("corrupt stream")
	var fail atomic.Bool
	fail.Store(true)
	c := NewCache(func(data []byte) (*Buffer, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, decodeErr
		}
		return monoBuffer(testutil.Sine(440, testRate, 4410, 0.5)), nil
	})

	_, err := c.LoadFromBytes("flaky", "flaky", nil)
	require.ErrorIs(t, err, decodeErr)
	assert.False(t, c.Has("flaky"))

	// The retry decodes again and succeeds.
	fail.Store(false)
	s, err := c.LoadFromBytes("flaky", "flaky", nil)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCacheGetUnknown(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownSample)
}

func TestCacheSetSlices(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))
	_, err := c.LoadFromBytes("loop", "loop", nil)
	require.NoError(t, err)

	slices := []Slice{{ID: "slice-0", StartFrame: 0, EndFrame: 100}}
	require.NoError(t, c.SetSlices("loop", slices))

	s, err := c.Get("loop")
	require.NoError(t, err)
	assert.Equal(t, slices, s.Slices)

	assert.ErrorIs(t, c.SetSlices("missing", slices), ErrUnknownSample)
}

func TestCacheLookupTracksMutations(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))

	_, ok := c.Lookup("loop")
	assert.False(t, ok)

	loaded, err := c.LoadFromBytes("loop", "loop", nil)
	require.NoError(t, err)
	got, ok := c.Lookup("loop")
	require.True(t, ok)
	assert.Same(t, loaded, got)

	c.Remove("loop")
	_, ok = c.Lookup("loop")
	assert.False(t, ok)
}

func TestCacheSetSlicesDoesNotMutatePublishedEntry(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))
	_, err := c.LoadFromBytes("loop", "loop", nil)
	require.NoError(t, err)

	// Simulate the audio context holding a reference across a control-side
	// slice update.
	held, ok := c.Lookup("loop")
	require.True(t, ok)
	require.Empty(t, held.Slices)

	slices := []Slice{{ID: "slice-0", StartFrame: 0, EndFrame: 100}}
	require.NoError(t, c.SetSlices("loop", slices))

	assert.Empty(t, held.Slices, "previously published entry must stay immutable")

	fresh, ok := c.Lookup("loop")
	require.True(t, ok)
	assert.Equal(t, slices, fresh.Slices)
	assert.NotSame(t, held, fresh)
}

func TestCacheRemoveAndClear(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))
	_, err := c.LoadFromBytes("a", "a", nil)
	require.NoError(t, err)
	_, err = c.LoadFromBytes("b", "b", nil)
	require.NoError(t, err)

	c.Remove("a")
	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))
	c.Remove("a") // no-op

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.IDs())
}

func TestCachePut(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))

	buf := monoBuffer(testutil.Sine(440, testRate, 4410, 0.5))
	s := &LoadedSample{
		Metadata: Metadata{ID: "processed", SampleRate: testRate, Duration: buf.Duration(), Channels: 1},
		Buffer:   buf,
	}
	require.NoError(t, c.Put(s))

	got, err := c.Get("processed")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.NotNil(t, got.Waveform, "waveform filled in on insert")

	// Replacing an id is allowed.
	require.NoError(t, c.Put(&LoadedSample{Metadata: Metadata{ID: "processed", SampleRate: testRate}, Buffer: buf}))

	assert.ErrorIs(t, c.Put(nil), ErrInvalidBuffer)
	assert.ErrorIs(t, c.Put(&LoadedSample{Buffer: buf}), ErrInvalidBuffer)
	assert.ErrorIs(t, c.Put(&LoadedSample{Metadata: Metadata{ID: "bad"}, Buffer: &Buffer{}}), ErrInvalidBuffer)
}

func TestCacheIDs(t *testing.T) {
	c := NewCache(countingDecoder(new(atomic.Int64), nil))
	_, err := c.LoadFromBytes("a", "a", nil)
	require.NoError(t, err)
	_, err = c.LoadFromBytes("b", "b", nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, c.IDs())
}
