package sample

import "errors"

// Sentinel errors returned by the sample pipeline.
var (
	// ErrInvalidBuffer indicates a structurally invalid buffer: no
	// channels, mismatched channel lengths or a non-positive sample rate.
	ErrInvalidBuffer = errors.New("invalid sample buffer")

	// ErrUnknownSample indicates a cache lookup for an id that was never
	// loaded or has been removed.
	ErrUnknownSample = errors.New("unknown sample id")

	// ErrInvalidSlice indicates slice bounds outside the buffer.
	ErrInvalidSlice = errors.New("invalid slice bounds")

	// ErrInvalidRatio indicates a non-positive stretch or resample ratio.
	ErrInvalidRatio = errors.New("invalid ratio")
)
