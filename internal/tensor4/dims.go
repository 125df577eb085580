package tensor4

import "fmt"

// Dims holds the four axis sizes of a tensor: batch, depth (channel),
// height, width. Elements are stored row-major with width varying fastest.
type Dims [4]int

// Axis indices into Dims.
const (
	AxisBatch = iota
	AxisDepth
	AxisHeight
	AxisWidth
)

// NumElements returns the total number of elements.
func (d Dims) NumElements() int {
	return d[0] * d[1] * d[2] * d[3]
}

// Validate checks that no axis size is negative.
// A zero axis is allowed and yields an empty tensor.
func (d Dims) Validate() error {
	for i, size := range d {
		if size < 0 {
			return fmt.Errorf("invalid size at axis %d: %d (must be >= 0)", i, size)
		}
	}
	return nil
}

// Equal checks if two Dims describe the same shape.
// This is the shape-compatibility test for binary element-wise operations.
func (d Dims) Equal(other Dims) bool {
	return d == other
}

// Strides returns the row-major strides for the four axes.
// stride[i] is the flat-index step when axis i advances by one.
func (d Dims) Strides() [4]int {
	return [4]int{d[1] * d[2] * d[3], d[2] * d[3], d[3], 1}
}

// Offset converts a four-axis index into a flat buffer offset.
// Every indexed access in the package goes through this function, so the
// bounds check and the dimension order are proven exactly once.
func (d Dims) Offset(i0, i1, i2, i3 int) (int, error) {
	idx := [4]int{i0, i1, i2, i3}
	for axis, i := range idx {
		if i < 0 || i >= d[axis] {
			return 0, fmt.Errorf("index %d out of bounds for axis %d (size %d)", i, axis, d[axis])
		}
	}
	s := d.Strides()
	return i0*s[0] + i1*s[1] + i2*s[2] + i3*s[3], nil
}

// String returns a human-readable representation, e.g. "[2, 3, 4, 5]".
func (d Dims) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", d[0], d[1], d[2], d[3])
}
