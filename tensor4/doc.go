// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor4 provides the dense four-axis tensor container for the
// patterncore compute core.
//
// # Overview
//
// A Tensor4D is a flat numeric buffer addressed by four named axis sizes
// (batch, depth, height, width) in row-major order with width varying
// fastest. This package provides:
//   - Generic type-safe tensors (Tensor4D[T])
//   - Bounds-checked four-axis indexing
//   - Element-wise operations with strict shape compatibility
//   - Reproducible random fills from an injected source
//
// # Basic Usage
//
//	import "github.com/maya-ml/patterncore/tensor4"
//
//	func main() {
//	    x, _ := tensor4.New[float32](tensor4.Dims{2, 3, 4, 4})
//	    y, _ := tensor4.Full[float32](tensor4.Dims{2, 3, 4, 4}, 1.0)
//	    z, _ := x.Add(y)
//	    _ = z
//	}
//
// # Ownership
//
// Every tensor exclusively owns its buffer: operations return freshly
// allocated tensors, Clone deep-copies, and nothing in this package aliases
// buffers between tensors.
//
// # Supported Element Types
//
// The DType constraint covers float32, float64, int16, int32, uint16 and
// uint32.
package tensor4
