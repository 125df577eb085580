package tensor4

import "fmt"

// Add returns the element-wise sum of t and other in a freshly allocated
// tensor. Both inputs are left untouched.
// Returns ErrShapeMismatch unless all four axis sizes are pairwise equal.
func (t *Tensor4D[T]) Add(other *Tensor4D[T]) (*Tensor4D[T], error) {
	if !t.dims.Equal(other.dims) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, t.dims, other.dims)
	}
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] += v
	}
	return out, nil
}

// Mul returns the element-wise product of t and other in a freshly allocated
// tensor. Both inputs are left untouched.
// Returns ErrShapeMismatch unless all four axis sizes are pairwise equal.
func (t *Tensor4D[T]) Mul(other *Tensor4D[T]) (*Tensor4D[T], error) {
	if !t.dims.Equal(other.dims) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, t.dims, other.dims)
	}
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] *= v
	}
	return out, nil
}

// ReLU clamps every negative element to zero, in place.
// A no-op for unsigned element types.
func (t *Tensor4D[T]) ReLU() {
	var zero T
	for i, v := range t.data {
		if v < zero {
			t.data[i] = zero
		}
	}
}
