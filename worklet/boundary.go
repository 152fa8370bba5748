package worklet

import (
	"fmt"
)

// WithErrorBoundary runs op and converts any panic or returned error into a
// call to onError with a structured payload. It never re-panics: a failure
// inside per-block processing degrades to the caller's fallback (typically
// silence for the block) instead of unwinding across the audio callback
// boundary.
//
// It returns true when op completed without error.
func WithErrorBoundary(name string, op func() error, onError func(ErrorPayload)) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if onError != nil {
				onError(ErrorPayload{Op: name, Message: fmt.Sprintf("panic: %v", r)})
			}
		}
	}()

	if err := op(); err != nil {
		if onError != nil {
			onError(ErrorPayload{Op: name, Message: err.Error()})
		}
		return false
	}
	return true
}
