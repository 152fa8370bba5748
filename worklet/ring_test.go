package worklet

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferFIFOOrder(t *testing.T) {
	const capacity = 8

	rb := NewRingBuffer[int](capacity)

	for i := 0; i < capacity-1; i++ {
		require.True(t, rb.Write(i), "write %d should succeed", i)
	}

	for i := 0; i < capacity-1; i++ {
		v, ok := rb.Read()
		require.True(t, ok, "read %d should succeed", i)
		assert.Equal(t, i, v, "items must come out in FIFO order")
	}

	assert.True(t, rb.IsEmpty())
}

func TestRingBufferFullAfterCapacityMinusOne(t *testing.T) {
	const capacity = 4

	rb := NewRingBuffer[int](capacity)

	for i := 0; i < capacity-1; i++ {
		require.True(t, rb.Write(i))
	}

	assert.True(t, rb.IsFull())
	assert.False(t, rb.Write(99), "write into a full buffer must fail")
	assert.Equal(t, capacity-1, rb.Len())
}

func TestRingBufferPeekDoesNotConsume(t *testing.T) {
	rb := NewRingBuffer[string](4)
	require.True(t, rb.Write("a"))
	require.True(t, rb.Write("b"))

	v, ok := rb.Peek()
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 2, rb.Len())

	v, ok = rb.Read()
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer[int](4)
	rb.Write(1)
	rb.Write(2)
	rb.Clear()

	assert.True(t, rb.IsEmpty())
	_, ok := rb.Read()
	assert.False(t, ok)
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer[int](4)

	// Interleave writes and reads to force index wraparound several times.
	next := 0
	expect := 0
	for round := 0; round < 10; round++ {
		for i := 0; i < 2; i++ {
			require.True(t, rb.Write(next))
			next++
		}
		for i := 0; i < 2; i++ {
			v, ok := rb.Read()
			require.True(t, ok)
			assert.Equal(t, expect, v)
			expect++
		}
	}
}

func TestSharedRingBufferFIFO(t *testing.T) {
	const capacity = 8

	producer, consumer := NewSharedRingBuffer[int](capacity)

	for i := 0; i < capacity-1; i++ {
		require.True(t, producer.Write(i))
	}
	assert.False(t, producer.Write(99), "buffer keeps one slot reserved")

	for i := 0; i < capacity-1; i++ {
		v, ok := consumer.Read()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, consumer.IsEmpty())
}

func TestSharedRingBufferFree(t *testing.T) {
	producer, consumer := NewSharedRingBuffer[int](8)

	assert.Equal(t, 7, producer.Free())
	producer.Write(1)
	producer.Write(2)
	assert.Equal(t, 5, producer.Free())

	consumer.Read()
	assert.Equal(t, 6, producer.Free())
}

func TestSharedRingBufferClear(t *testing.T) {
	producer, consumer := NewSharedRingBuffer[int](8)
	producer.Write(1)
	producer.Write(2)

	consumer.Clear()
	assert.True(t, consumer.IsEmpty())
	assert.Equal(t, 7, producer.Free())
}

// TestSharedRingBufferConcurrent pushes a long item stream through the buffer
// with producer and consumer on separate goroutines and verifies order and
// completeness. Failed writes are retried by the producer loop; the consumer
// spins on empty reads. This mirrors the control/audio context relationship.
func TestSharedRingBufferConcurrent(t *testing.T) {
	const (
		capacity = 16
		total    = 10000
	)

	producer, consumer := NewSharedRingBuffer[int](capacity)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if producer.Write(i) {
				i++
			}
		}
	}()

	received := make([]int, 0, total)
	go func() {
		defer wg.Done()
		for len(received) < total {
			if v, ok := consumer.Read(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()

	require.Len(t, received, total)
	for i, v := range received {
		if v != i {
			t.Fatalf("out of order at %d: got %d", i, v)
		}
	}
}
