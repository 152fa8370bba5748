package worklet

// RingBuffer is a bounded FIFO queue for use within a single goroutine or
// behind external synchronization. It is not safe for concurrent use; for
// cross-context exchange use SharedRingBuffer.
//
// One slot is kept permanently unusable so a full buffer can be told apart
// from an empty one without a separate counter: a buffer constructed with
// capacity n holds at most n-1 items.
type RingBuffer[T any] struct {
	items []T
	read  int
	write int
}

// NewRingBuffer creates a ring buffer with the given slot count.
// Capacity must be at least 2; smaller values are raised to 2.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Write appends an item. It returns false, leaving the buffer unchanged,
// when the buffer is full.
func (r *RingBuffer[T]) Write(item T) bool {
	next := (r.write + 1) % len(r.items)
	if next == r.read {
		return false
	}
	r.items[r.write] = item
	r.write = next
	return true
}

// Read removes and returns the oldest item. The second return value is false
// when the buffer is empty.
func (r *RingBuffer[T]) Read() (T, bool) {
	var zero T
	if r.read == r.write {
		return zero, false
	}
	item := r.items[r.read]
	r.items[r.read] = zero
	r.read = (r.read + 1) % len(r.items)
	return item, true
}

// Peek returns the oldest item without removing it.
func (r *RingBuffer[T]) Peek() (T, bool) {
	var zero T
	if r.read == r.write {
		return zero, false
	}
	return r.items[r.read], true
}

// Len returns the number of queued items.
func (r *RingBuffer[T]) Len() int {
	return (r.write - r.read + len(r.items)) % len(r.items)
}

// Cap returns the maximum number of items the buffer can hold.
func (r *RingBuffer[T]) Cap() int {
	return len(r.items) - 1
}

// IsEmpty reports whether the buffer holds no items.
func (r *RingBuffer[T]) IsEmpty() bool {
	return r.read == r.write
}

// IsFull reports whether a Write would fail.
func (r *RingBuffer[T]) IsFull() bool {
	return (r.write+1)%len(r.items) == r.read
}

// Clear discards all queued items.
func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.read = 0
	r.write = 0
}
