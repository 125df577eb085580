// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor4

import (
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Type aliases for the public API.

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int16, int32, uint16, uint32.
type DType = tensor4.DType

// DataType represents the underlying element type of a tensor.
type DataType = tensor4.DataType

// Element type constants.
const (
	Float32 DataType = tensor4.Float32
	Float64 DataType = tensor4.Float64
	Int16   DataType = tensor4.Int16
	Int32   DataType = tensor4.Int32
	Uint16  DataType = tensor4.Uint16
	Uint32  DataType = tensor4.Uint32
)

// Dims holds the four axis sizes: batch, depth, height, width.
type Dims = tensor4.Dims

// Axis indices into Dims.
const (
	AxisBatch  = tensor4.AxisBatch
	AxisDepth  = tensor4.AxisDepth
	AxisHeight = tensor4.AxisHeight
	AxisWidth  = tensor4.AxisWidth
)

// Tensor4D is a dense numeric array over four named axes.
//
// Example:
//
//	t, err := tensor4.New[float32](tensor4.Dims{2, 3, 4, 4})
//	t.SetAt(1.5, 0, 2, 1, 3)
type Tensor4D[T DType] = tensor4.Tensor4D[T]

// Common errors.
var (
	ErrShapeMismatch  = tensor4.ErrShapeMismatch
	ErrLengthMismatch = tensor4.ErrLengthMismatch
)

// New creates a zero-filled tensor with the given axis sizes.
//
// Example:
//
//	x, err := tensor4.New[float32](tensor4.Dims{1, 1, 28, 28})
func New[T DType](dims Dims) (*Tensor4D[T], error) {
	return tensor4.New[T](dims)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x, err := tensor4.Full[float32](tensor4.Dims{1, 1, 28, 28}, 3.14)
func Full[T DType](dims Dims, value T) (*Tensor4D[T], error) {
	return tensor4.Full[T](dims, value)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor4.FromSlice(data, tensor4.Dims{1, 1, 2, 3})
func FromSlice[T DType](data []T, dims Dims) (*Tensor4D[T], error) {
	return tensor4.FromSlice[T](data, dims)
}
