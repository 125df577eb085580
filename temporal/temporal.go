// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package temporal provides the sliding-window processor: a bounded
// chronological history of tensor snapshots re-aggregated with gravity-well
// self-attention on every observation.
//
// A Processor is not safe for concurrent use; callers serialize Observe.
//
// Example:
//
//	p, err := temporal.NewProcessor[float32](temporal.DefaultConfig())
//	for _, frame := range frames {
//	    aggregate, err := p.Observe(frame)
//	    ...
//	}
package temporal

import (
	"github.com/maya-ml/patterncore/internal/temporal"
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Config configures a Processor.
type Config = temporal.Config

// Processor holds a bounded circular history of tensor snapshots.
type Processor[T tensor4.DType] = temporal.Processor[T]

// ErrNilTensor is returned by Observe when given a nil tensor.
var ErrNilTensor = temporal.ErrNilTensor

// DefaultConfig returns a window of eight snapshots, no subsampling, and
// default attention parameters.
func DefaultConfig() Config {
	return temporal.DefaultConfig()
}

// NewProcessor validates the configuration and returns an empty processor.
func NewProcessor[T tensor4.DType](cfg Config) (*Processor[T], error) {
	return temporal.NewProcessor[T](cfg)
}
