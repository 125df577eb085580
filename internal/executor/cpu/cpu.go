// Package cpu provides the trivial host-memory executor. It defines the
// reference semantics every offload backend must match and keeps the core
// fully functional on machines with no GPU at all.
package cpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/maya-ml/patterncore/internal/executor"
)

// Executor keeps buffers in host memory and runs the element-wise programs
// as plain Go loops. Handles are process-local and never reused.
type Executor struct {
	mu      sync.Mutex
	next    executor.Handle
	buffers map[executor.Handle][]byte
}

// Compile-time check that Executor implements executor.Executor.
var _ executor.Executor = (*Executor)(nil)

// New creates a CPU executor.
func New() *Executor {
	return &Executor{buffers: make(map[executor.Handle][]byte)}
}

// Name identifies the backend.
func (e *Executor) Name() string {
	return "cpu"
}

// Allocate reserves a zeroed host buffer.
func (e *Executor) Allocate(byteSize int) (executor.Handle, error) {
	if byteSize < 0 {
		return executor.InvalidHandle, fmt.Errorf("negative buffer size %d", byteSize)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	h := e.next
	e.buffers[h] = make([]byte, byteSize)
	return h, nil
}

// Upload copies host bytes into the buffer.
func (e *Executor) Upload(h executor.Handle, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	buf, ok := e.buffers[h]
	if !ok {
		return fmt.Errorf("upload: %w: %d", executor.ErrUnknownHandle, h)
	}
	if len(data) != len(buf) {
		return fmt.Errorf("upload: %w: buffer %d bytes, data %d bytes",
			executor.ErrSizeMismatch, len(buf), len(data))
	}
	copy(buf, data)
	return nil
}

// Download copies the buffer's bytes back out.
func (e *Executor) Download(h executor.Handle) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	buf, ok := e.buffers[h]
	if !ok {
		return nil, fmt.Errorf("download: %w: %d", executor.ErrUnknownHandle, h)
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// Release frees the buffer.
func (e *Executor) Release(h executor.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buffers[h]; !ok {
		return fmt.Errorf("release: %w: %d", executor.ErrUnknownHandle, h)
	}
	delete(e.buffers, h)
	return nil
}

// Dispatch runs a program over the bound buffers. The workgroup grid is
// ignored: the host loop always covers the whole buffer.
func (e *Executor) Dispatch(p executor.Program, buffers []executor.Handle, _ [3]uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	views := make([][]float32, len(buffers))
	for i, h := range buffers {
		buf, ok := e.buffers[h]
		if !ok {
			return fmt.Errorf("dispatch: %w: %d", executor.ErrUnknownHandle, h)
		}
		views[i] = asFloats(buf)
	}

	switch p {
	case executor.ProgramAdd, executor.ProgramMul:
		if len(views) != 3 {
			return fmt.Errorf("dispatch %s: %w: want 3, got %d", p, executor.ErrBadArity, len(views))
		}
		a, b, out := views[0], views[1], views[2]
		if len(a) != len(b) || len(a) != len(out) {
			return fmt.Errorf("dispatch %s: %w", p, executor.ErrSizeMismatch)
		}
		if p == executor.ProgramAdd {
			for i := range out {
				out[i] = a[i] + b[i]
			}
		} else {
			for i := range out {
				out[i] = a[i] * b[i]
			}
		}
	case executor.ProgramReLU:
		if len(views) != 2 {
			return fmt.Errorf("dispatch %s: %w: want 2, got %d", p, executor.ErrBadArity, len(views))
		}
		in, out := views[0], views[1]
		if len(in) != len(out) {
			return fmt.Errorf("dispatch %s: %w", p, executor.ErrSizeMismatch)
		}
		for i, v := range in {
			if v < 0 {
				v = 0
			}
			out[i] = v
		}
	case executor.ProgramScale:
		if len(views) != 3 {
			return fmt.Errorf("dispatch %s: %w: want 3, got %d", p, executor.ErrBadArity, len(views))
		}
		in, param, out := views[0], views[1], views[2]
		if len(param) != 1 || len(in) != len(out) {
			return fmt.Errorf("dispatch %s: %w", p, executor.ErrSizeMismatch)
		}
		scalar := param[0]
		for i, v := range in {
			out[i] = v * scalar
		}
	default:
		return fmt.Errorf("dispatch: %w: %d", executor.ErrUnknownProgram, int(p))
	}
	return nil
}

// asFloats reinterprets a byte buffer as float32s.
func asFloats(buf []byte) []float32 {
	if len(buf) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy conversion, length is exact
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), len(buf)/4)
}
