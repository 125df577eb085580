package tensor4

import "fmt"

// Tensor4D is a dense numeric array over four named axes.
//
// The flat buffer always holds exactly dims.NumElements() elements in
// row-major order (width fastest). A Tensor4D is exclusively owned by its
// creator: no operation in this package shares or aliases buffers between
// tensors, and Clone always allocates a distinct buffer.
//
// Example:
//
//	t, err := tensor4.New[float32](tensor4.Dims{2, 3, 4, 4})
//	t.SetAt(1.5, 0, 2, 1, 3)
//	v := t.At(0, 2, 1, 3)
type Tensor4D[T DType] struct {
	dims Dims
	data []T
}

// New creates a zero-filled tensor with the given axis sizes.
func New[T DType](dims Dims) (*Tensor4D[T], error) {
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dims: %w", err)
	}
	return &Tensor4D[T]{
		dims: dims,
		data: make([]T, dims.NumElements()),
	}, nil
}

// Full creates a tensor filled with a specific value.
func Full[T DType](dims Dims, value T) (*Tensor4D[T], error) {
	t, err := New[T](dims)
	if err != nil {
		return nil, err
	}
	t.Fill(value)
	return t, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's buffer.
func FromSlice[T DType](data []T, dims Dims) (*Tensor4D[T], error) {
	t, err := New[T](dims)
	if err != nil {
		return nil, err
	}
	if len(data) != dims.NumElements() {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, got %d",
			ErrLengthMismatch, dims, dims.NumElements(), len(data))
	}
	copy(t.data, data)
	return t, nil
}

// Dims returns the tensor's axis sizes.
func (t *Tensor4D[T]) Dims() Dims {
	return t.dims
}

// NumElements returns the total number of elements.
func (t *Tensor4D[T]) NumElements() int {
	return len(t.data)
}

// DType returns the tensor's runtime element type.
func (t *Tensor4D[T]) DType() DataType {
	var dummy T
	return inferDataType(dummy)
}

// Data returns the flat buffer backing the tensor.
//
// WARNING: modifications to the returned slice modify the tensor.
func (t *Tensor4D[T]) Data() []T {
	return t.data
}

// At returns the element at the given four-axis index.
// Panics if any index is out of bounds.
func (t *Tensor4D[T]) At(i0, i1, i2, i3 int) T {
	off, err := t.dims.Offset(i0, i1, i2, i3)
	if err != nil {
		panic(err.Error())
	}
	return t.data[off]
}

// SetAt sets the element at the given four-axis index.
// Panics if any index is out of bounds.
func (t *Tensor4D[T]) SetAt(value T, i0, i1, i2, i3 int) {
	off, err := t.dims.Offset(i0, i1, i2, i3)
	if err != nil {
		panic(err.Error())
	}
	t.data[off] = value
}

// Fill sets every element to the given value.
func (t *Tensor4D[T]) Fill(value T) {
	for i := range t.data {
		t.data[i] = value
	}
}

// Clone creates a deep copy with its own buffer.
func (t *Tensor4D[T]) Clone() *Tensor4D[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return &Tensor4D[T]{dims: t.dims, data: data}
}

// String returns a human-readable representation of the tensor.
func (t *Tensor4D[T]) String() string {
	return fmt.Sprintf("Tensor4D[%s]%v", t.DType(), t.dims)
}
