// Copyright 2025 The Patterncore Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/maya-ml/patterncore/executor"
	internalcpu "github.com/maya-ml/patterncore/internal/executor/cpu"
)

// Executor is the trivial host-memory executor. It defines the reference
// semantics every offload backend must match.
type Executor = internalcpu.Executor

// Compile-time check that Executor implements executor.Executor.
var _ executor.Executor = (*Executor)(nil)

// New creates a CPU executor.
//
// Example:
//
//	import (
//	    "github.com/maya-ml/patterncore/executor"
//	    "github.com/maya-ml/patterncore/executor/cpu"
//	)
//
//	func main() {
//	    exec := cpu.New()
//	    out, err := executor.ReLU(exec, x)
//	}
func New() *Executor {
	return internalcpu.New()
}
