// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

//go:build windows

package webgpu

import (
	"github.com/maya-ml/patterncore/executor"
	internalwebgpu "github.com/maya-ml/patterncore/internal/executor/webgpu"
)

// Executor runs the offload programs as WGSL compute shaders on WebGPU.
type Executor = internalwebgpu.Executor

// Compile-time check that Executor implements executor.Executor.
var _ executor.Executor = (*Executor)(nil)

// New creates a WebGPU executor.
// Returns an error if WebGPU is not available or initialization fails.
func New() (*Executor, error) {
	return internalwebgpu.New()
}
