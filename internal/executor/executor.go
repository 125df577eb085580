// Package executor defines the offload boundary of the compute core: a
// pluggable capability interface for executing element-wise programs on
// buffers resident on a device. The core is defined independent of where it
// executes; any backend implementing Executor can serve, and the trivial CPU
// executor is the reference semantics.
package executor

import "errors"

// Common errors.
var (
	ErrUnknownHandle  = errors.New("unknown buffer handle")
	ErrUnknownProgram = errors.New("unknown program")
	ErrBadArity       = errors.New("wrong buffer count for program")
	ErrSizeMismatch   = errors.New("buffer sizes do not match")
)

// Handle is an opaque reference to a device-resident buffer.
type Handle uint64

// InvalidHandle is never returned by a successful Allocate.
const InvalidHandle Handle = 0

// Program identifies an element-wise compute program every backend must
// provide. Binary programs bind buffers as [a, b, result]; unary programs
// as [input, result]; Scale binds [input, scalar, result] with the scalar
// in a 4-byte buffer.
type Program int

// Supported programs.
const (
	ProgramAdd Program = iota
	ProgramMul
	ProgramReLU
	ProgramScale
)

// String returns a human-readable program name.
func (p Program) String() string {
	switch p {
	case ProgramAdd:
		return "add"
	case ProgramMul:
		return "mul"
	case ProgramReLU:
		return "relu"
	case ProgramScale:
		return "scale"
	default:
		return "unknown"
	}
}

// WorkgroupSize is the number of invocations per workgroup the programs are
// written for; callers size their dispatch grids against it.
const WorkgroupSize = 256

// Executor is the offload capability interface.
//
// Implementations:
//   - cpu: host-memory reference implementation
//   - webgpu: GPU execution via WGSL compute shaders
type Executor interface {
	// Allocate reserves a device buffer of the given byte size.
	Allocate(byteSize int) (Handle, error)
	// Upload copies host bytes into the buffer. The lengths must match.
	Upload(h Handle, data []byte) error
	// Download copies the buffer's bytes back to the host.
	Download(h Handle) ([]byte, error)
	// Dispatch runs a program over the bound buffers with the given
	// workgroup grid.
	Dispatch(p Program, buffers []Handle, groups [3]uint32) error
	// Release frees the buffer. The handle is invalid afterwards.
	Release(h Handle) error
	// Name identifies the backend.
	Name() string
}

// GroupsFor returns the 1D workgroup grid covering n elements.
func GroupsFor(n int) [3]uint32 {
	//nolint:gosec // G115: element counts are non-negative
	return [3]uint32{uint32((n + WorkgroupSize - 1) / WorkgroupSize), 1, 1}
}
