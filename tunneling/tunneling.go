// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tunneling provides quantum-tunneling access: a probabilistic
// long-range memory-read operator that, with a distance-shaped probability,
// redirects element reads to other locations in the tensor.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	out, err := tunneling.Access(input, tunneling.DefaultParams(), rng)
package tunneling

import (
	"math/rand"

	"github.com/maya-ml/patterncore/internal/tensor4"
	"github.com/maya-ml/patterncore/internal/tunneling"
)

// Params configures a tunneling pass.
type Params = tunneling.Params

// DefaultParams returns a mild tunneling configuration.
func DefaultParams() Params {
	return tunneling.DefaultParams()
}

// Probability is the closed-form tunneling probability for a jump of the
// given distance through the given energy barrier. It is a pure function;
// Access consults it for every proposed jump.
func Probability(distance, energyBarrier float64, p Params) float64 {
	return tunneling.Probability(distance, energyBarrier, p)
}

// Access produces a tensor of identical shape in which some element reads
// have been probabilistically redirected. The input is never mutated; the
// random source is explicit so runs are reproducible.
func Access[T tensor4.DType](
	input *tensor4.Tensor4D[T],
	p Params,
	rng *rand.Rand,
) (*tensor4.Tensor4D[T], error) {
	return tunneling.Access(input, p, rng)
}
