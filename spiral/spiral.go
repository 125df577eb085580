// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package spiral provides the spiral receptive-field operator: a square
// neighborhood mask whose included taps follow a logarithmic-spiral arc,
// applied as a depthwise sliding-window aggregation.
//
// Example:
//
//	rf, err := spiral.Mask(spiral.KernelParams{KernelSize: 11, NumRotations: 2})
//	out, err := spiral.Aggregate(input, rf, 1, 0)
package spiral

import (
	"github.com/maya-ml/patterncore/internal/spiral"
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// KernelParams configures a spiral receptive field.
type KernelParams = spiral.KernelParams

// ReceptiveField is the generated weighting mask with its pinned
// included-cell count.
type ReceptiveField = spiral.ReceptiveField

// Mask builds the spiral receptive field for the given parameters.
func Mask(p KernelParams) (*ReceptiveField, error) {
	return spiral.Mask(p)
}

// Aggregate applies the receptive field as a depthwise sliding-window
// aggregation with standard stride/padding semantics, normalizing each
// masked sum by the included-cell count.
func Aggregate[T tensor4.DType](
	input *tensor4.Tensor4D[T],
	rf *ReceptiveField,
	stride, padding int,
) (*tensor4.Tensor4D[T], error) {
	return spiral.Aggregate(input, rf, stride, padding)
}
