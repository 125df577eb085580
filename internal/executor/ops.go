package executor

import (
	"fmt"
	"unsafe"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Tensor-level helpers running the element-wise operations through an
// executor: allocate, upload, dispatch, download, release. Results are
// freshly allocated tensors identical to the in-process tensor4 ops; inputs
// are never mutated.

// Add computes a + b on the executor.
func Add(e Executor, a, b *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	return runBinary(e, ProgramAdd, a, b)
}

// Mul computes a * b element-wise on the executor.
func Mul(e Executor, a, b *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	return runBinary(e, ProgramMul, a, b)
}

// ReLU computes max(x, 0) element-wise on the executor.
func ReLU(e Executor, x *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	n := x.NumElements()
	if n == 0 {
		return tensor4.New[float32](x.Dims())
	}

	in, err := uploadTensor(e, x)
	if err != nil {
		return nil, err
	}
	defer e.Release(in) //nolint:errcheck // release on the teardown path

	out, err := e.Allocate(n * 4)
	if err != nil {
		return nil, err
	}
	defer e.Release(out) //nolint:errcheck // release on the teardown path

	if err := e.Dispatch(ProgramReLU, []Handle{in, out}, GroupsFor(n)); err != nil {
		return nil, fmt.Errorf("%s relu: %w", e.Name(), err)
	}
	return downloadTensor(e, out, x.Dims())
}

// Scale computes x * scalar element-wise on the executor.
func Scale(e Executor, x *tensor4.Tensor4D[float32], scalar float32) (*tensor4.Tensor4D[float32], error) {
	n := x.NumElements()
	if n == 0 {
		return tensor4.New[float32](x.Dims())
	}

	in, err := uploadTensor(e, x)
	if err != nil {
		return nil, err
	}
	defer e.Release(in) //nolint:errcheck // release on the teardown path

	param, err := e.Allocate(4)
	if err != nil {
		return nil, err
	}
	defer e.Release(param) //nolint:errcheck // release on the teardown path
	if err := e.Upload(param, floatsToBytes([]float32{scalar})); err != nil {
		return nil, err
	}

	out, err := e.Allocate(n * 4)
	if err != nil {
		return nil, err
	}
	defer e.Release(out) //nolint:errcheck // release on the teardown path

	if err := e.Dispatch(ProgramScale, []Handle{in, param, out}, GroupsFor(n)); err != nil {
		return nil, fmt.Errorf("%s scale: %w", e.Name(), err)
	}
	return downloadTensor(e, out, x.Dims())
}

func runBinary(e Executor, p Program, a, b *tensor4.Tensor4D[float32]) (*tensor4.Tensor4D[float32], error) {
	if !a.Dims().Equal(b.Dims()) {
		return nil, fmt.Errorf("%w: %v vs %v", tensor4.ErrShapeMismatch, a.Dims(), b.Dims())
	}
	n := a.NumElements()
	if n == 0 {
		return tensor4.New[float32](a.Dims())
	}

	ha, err := uploadTensor(e, a)
	if err != nil {
		return nil, err
	}
	defer e.Release(ha) //nolint:errcheck // release on the teardown path

	hb, err := uploadTensor(e, b)
	if err != nil {
		return nil, err
	}
	defer e.Release(hb) //nolint:errcheck // release on the teardown path

	out, err := e.Allocate(n * 4)
	if err != nil {
		return nil, err
	}
	defer e.Release(out) //nolint:errcheck // release on the teardown path

	if err := e.Dispatch(p, []Handle{ha, hb, out}, GroupsFor(n)); err != nil {
		return nil, fmt.Errorf("%s %s: %w", e.Name(), p, err)
	}
	return downloadTensor(e, out, a.Dims())
}

func uploadTensor(e Executor, t *tensor4.Tensor4D[float32]) (Handle, error) {
	data := floatsToBytes(t.Data())
	h, err := e.Allocate(len(data))
	if err != nil {
		return InvalidHandle, err
	}
	if err := e.Upload(h, data); err != nil {
		e.Release(h) //nolint:errcheck // best-effort cleanup
		return InvalidHandle, err
	}
	return h, nil
}

func downloadTensor(e Executor, h Handle, dims tensor4.Dims) (*tensor4.Tensor4D[float32], error) {
	data, err := e.Download(h)
	if err != nil {
		return nil, err
	}
	return tensor4.FromSlice(bytesToFloats(data), dims)
}

// floatsToBytes reinterprets a float32 slice as its backing bytes.
func floatsToBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy conversion, length is exact
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// bytesToFloats reinterprets a byte slice as float32s.
func bytesToFloats(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy conversion, length is exact
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4)
}
