// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package executor defines the offload boundary of the compute core: a
// pluggable capability interface (allocate, upload, download, dispatch,
// release) for executing element-wise programs on device-resident buffers,
// plus tensor-level helpers that drive any implementation end to end.
//
// The core works identically with the trivial CPU executor and a GPU
// backend; the CPU executor defines the reference semantics.
//
// Example:
//
//	exec := cpu.New()
//	sum, err := executor.Add(exec, a, b)
package executor

import (
	"github.com/maya-ml/patterncore/internal/executor"
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Executor is the offload capability interface.
type Executor = executor.Executor

// Handle is an opaque reference to a device-resident buffer.
type Handle = executor.Handle

// InvalidHandle is never returned by a successful Allocate.
const InvalidHandle = executor.InvalidHandle

// Program identifies an element-wise compute program.
type Program = executor.Program

// Supported programs.
const (
	ProgramAdd   Program = executor.ProgramAdd
	ProgramMul   Program = executor.ProgramMul
	ProgramReLU  Program = executor.ProgramReLU
	ProgramScale Program = executor.ProgramScale
)

// WorkgroupSize is the number of invocations per workgroup the programs are
// written for.
const WorkgroupSize = executor.WorkgroupSize

// Common errors.
var (
	ErrUnknownHandle  = executor.ErrUnknownHandle
	ErrUnknownProgram = executor.ErrUnknownProgram
	ErrBadArity       = executor.ErrBadArity
	ErrSizeMismatch   = executor.ErrSizeMismatch
)

// GroupsFor returns the 1D workgroup grid covering n elements.
func GroupsFor(n int) [3]uint32 {
	return executor.GroupsFor(n)
}

// Add computes a + b on the executor.
func Add(e Executor, a, b *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	return executor.Add(e, a, b)
}

// Mul computes a * b element-wise on the executor.
func Mul(e Executor, a, b *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	return executor.Mul(e, a, b)
}

// ReLU computes max(x, 0) element-wise on the executor.
func ReLU(e Executor, x *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	return executor.ReLU(e, x)
}

// Scale computes x * scalar element-wise on the executor.
func Scale(e Executor, x *tensor4.Tensor4D[float32], scalar float32) (*tensor4.Tensor4D[float32], error) {
	return executor.Scale(e, x, scalar)
}
