// Package worklet provides the infrastructure that connects the non-real-time
// control context to the real-time audio context: a typed message protocol,
// bounded ring buffers (including a lock-free SPSC variant safe to share
// between the two contexts), sample/time conversions, a rolling performance
// profiler, and an error boundary that degrades per-block failures to silence
// instead of letting them unwind across the audio callback.
//
// # Contexts
//
// The control context may allocate, block and perform I/O. The audio context
// runs inside a fixed-period callback and must not allocate, lock or block.
// All communication between the two goes through [SharedRingBuffer], whose
// producer and consumer handles are single-owner by construction.
//
// # Messages
//
// Messages are immutable once constructed. Construct them with the typed
// constructors ([NewParamMessage], [NewEventMessage], ...) rather than by
// filling in the struct directly; the constructors stamp the timestamp and
// keep payload and type tag consistent.
package worklet
