package worklet

import (
	"sync/atomic"
)

// SharedRingBuffer is a lock-free single-producer/single-consumer FIFO over a
// fixed slice of slots. The producer and consumer may run on independently
// scheduled goroutines (control and audio contexts); neither side blocks,
// locks or allocates.
//
// Indices always satisfy 0 <= index < capacity. The buffer is empty when
// write == read and full when (write+1)%capacity == read; one slot is
// permanently reserved to disambiguate the two states without extra
// synchronization.
//
// The SPSC discipline is enforced at the API level: NewSharedRingBuffer
// returns exactly one Producer and one Consumer handle. Sharing a handle
// between goroutines requires an external serialization point.
type SharedRingBuffer[T any] struct {
	slots []T
	read  atomic.Uint32
	write atomic.Uint32
}

// Producer is the writing half of a SharedRingBuffer. It must be owned by a
// single goroutine at a time.
type Producer[T any] struct {
	rb *SharedRingBuffer[T]
}

// Consumer is the reading half of a SharedRingBuffer. It must be owned by a
// single goroutine at a time.
type Consumer[T any] struct {
	rb *SharedRingBuffer[T]
}

// NewSharedRingBuffer creates a shared ring buffer with the given slot count
// and returns its producer and consumer handles. Capacity must be at least 2;
// smaller values are raised to 2. All slot memory is allocated up front; no
// allocation happens on the write or read paths.
func NewSharedRingBuffer[T any](capacity int) (*Producer[T], *Consumer[T]) {
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}
	rb := &SharedRingBuffer[T]{slots: make([]T, capacity)}
	return &Producer[T]{rb: rb}, &Consumer[T]{rb: rb}
}

// Write appends an item. It returns false, without blocking or retrying,
// when the buffer is full.
func (p *Producer[T]) Write(item T) bool {
	rb := p.rb
	write := rb.write.Load()
	next := (write + 1) % uint32(len(rb.slots))
	if next == rb.read.Load() {
		return false
	}
	rb.slots[write] = item
	rb.write.Store(next)
	return true
}

// Free returns the number of items that can be written before the buffer is full.
func (p *Producer[T]) Free() int {
	rb := p.rb
	used := (rb.write.Load() - rb.read.Load() + uint32(len(rb.slots))) % uint32(len(rb.slots))
	return len(rb.slots) - 1 - int(used)
}

// Read removes and returns the oldest item. The second return value is false
// when the buffer is empty.
func (c *Consumer[T]) Read() (T, bool) {
	rb := c.rb
	var zero T
	read := rb.read.Load()
	if read == rb.write.Load() {
		return zero, false
	}
	item := rb.slots[read]
	rb.read.Store((read + 1) % uint32(len(rb.slots)))
	return item, true
}

// Peek returns the oldest item without removing it.
func (c *Consumer[T]) Peek() (T, bool) {
	rb := c.rb
	var zero T
	read := rb.read.Load()
	if read == rb.write.Load() {
		return zero, false
	}
	return rb.slots[read], true
}

// Len returns the number of queued items as observed by the consumer.
func (c *Consumer[T]) Len() int {
	rb := c.rb
	return int((rb.write.Load() - rb.read.Load() + uint32(len(rb.slots))) % uint32(len(rb.slots)))
}

// IsEmpty reports whether the buffer holds no items.
func (c *Consumer[T]) IsEmpty() bool {
	rb := c.rb
	return rb.read.Load() == rb.write.Load()
}

// Clear discards all queued items. Only the consumer may clear; the producer
// sees the freed space on its next Write.
func (c *Consumer[T]) Clear() {
	rb := c.rb
	rb.read.Store(rb.write.Load())
}
