// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package attention provides gravity-well attention: a distance/mass-weighted
// scoring-and-aggregation mechanism over a query tensor and N (key, value)
// tensor pairs.
//
// Example:
//
//	params := attention.DefaultParams()
//	out, err := attention.GravityWell(query, keys, values, params)
package attention

import (
	"github.com/maya-ml/patterncore/internal/attention"
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Params configures a gravity-well attention invocation.
type Params = attention.Params

// Common errors.
var (
	ErrArityMismatch  = attention.ErrArityMismatch
	ErrLengthMismatch = attention.ErrLengthMismatch
)

// DefaultParams returns unit mass scale and temperature with softmax enabled.
func DefaultParams() Params {
	return attention.DefaultParams()
}

// Mass returns the Euclidean norm of the tensor's flattened values.
func Mass[T tensor4.DType](t *tensor4.Tensor4D[T]) float64 {
	return attention.Mass(t)
}

// CosineDistance returns 1 - cos(a, b) over the flattened buffers. The
// second return is false when either norm is zero and the distance is
// undefined.
func CosineDistance[T tensor4.DType](a, b *tensor4.Tensor4D[T]) (float64, bool, error) {
	return attention.CosineDistance(a, b)
}

// GravityWell computes distance/mass-weighted attention over the query and
// the (key, value) pairs, returning a freshly allocated aggregate shaped
// like values[0].
func GravityWell[T tensor4.DType](
	query *tensor4.Tensor4D[T],
	keys, values []*tensor4.Tensor4D[T],
	p Params,
) (*tensor4.Tensor4D[T], error) {
	return attention.GravityWell(query, keys, values, p)
}
