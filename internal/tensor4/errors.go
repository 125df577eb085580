package tensor4

import "errors"

// Common errors.
var (
	ErrShapeMismatch  = errors.New("tensor shapes are not compatible")
	ErrLengthMismatch = errors.New("data length does not match shape")
)
