package render

import "errors"

// The engine's failure taxonomy. Everything else is total on valid input:
// out-of-range adjustments are clamped and reported, never fatal.
var (
	// ErrInvalidDimensions marks non-positive sizes or a source buffer
	// whose length is not 4·w·h.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrLUTSizeMismatch marks a table whose sample count is not 3·N³.
	ErrLUTSizeMismatch = errors.New("lut size mismatch")

	// ErrMaskShapeMismatch marks a mask alpha plane whose length is not w·h.
	ErrMaskShapeMismatch = errors.New("mask shape mismatch")
)
