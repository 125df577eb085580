package spiral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

func TestKernelParamsValidate(t *testing.T) {
	require.NoError(t, KernelParams{KernelSize: 5, NumRotations: 2}.Validate())

	assert.Error(t, KernelParams{KernelSize: 4, NumRotations: 1}.Validate(), "even kernel")
	assert.Error(t, KernelParams{KernelSize: 0, NumRotations: 1}.Validate(), "zero kernel")
	assert.Error(t, KernelParams{KernelSize: 5, NumRotations: 0}.Validate(), "zero rotations")
}

func TestMaskIncludedCounts(t *testing.T) {
	// Regression fixture: pinned counts for the chosen geometry. More
	// rotations wind the spiral tighter, shrinking each angle's radius, so
	// the included count falls as rotations rise and never reaches the full
	// square.
	tests := []struct {
		kernelSize   int
		numRotations int
		included     int
	}{
		{11, 1, 55},
		{11, 2, 14},
		{11, 3, 8},
		{5, 1, 10},
		{5, 2, 3},
		{3, 1, 3},
		{1, 1, 1},
	}

	for _, tt := range tests {
		rf, err := Mask(KernelParams{KernelSize: tt.kernelSize, NumRotations: tt.numRotations})
		require.NoError(t, err)
		assert.Equal(t, tt.included, rf.Included,
			"kernel %d rotations %d", tt.kernelSize, tt.numRotations)
	}

	// Sanity bounds from the fixture for kernel 11: both rotation counts
	// stay strictly inside the full 121-cell square, and extra rotations
	// strictly shrink the field.
	one, err := Mask(KernelParams{KernelSize: 11, NumRotations: 1})
	require.NoError(t, err)
	two, err := Mask(KernelParams{KernelSize: 11, NumRotations: 2})
	require.NoError(t, err)
	assert.Less(t, two.Included, one.Included)
	assert.Less(t, one.Included, 11*11)
	assert.Greater(t, two.Included, 0)
}

func TestMaskWeightsAreBinaryAndMatchCount(t *testing.T) {
	rf, err := Mask(KernelParams{KernelSize: 7, NumRotations: 2})
	require.NoError(t, err)

	included := 0
	for _, w := range rf.Weights {
		assert.Contains(t, []float64{0, 1}, w)
		if w == 1 {
			included++
		}
	}
	assert.Equal(t, rf.Included, included)
}

func TestMaskThreeByThreeLayout(t *testing.T) {
	// Pinned layout for the smallest non-trivial field.
	rf, err := Mask(KernelParams{KernelSize: 3, NumRotations: 1})
	require.NoError(t, err)

	expected := []float64{
		0, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	assert.Equal(t, expected, rf.Weights)
}

func TestAggregateIdentityWithUnitKernel(t *testing.T) {
	rf, err := Mask(KernelParams{KernelSize: 1, NumRotations: 1})
	require.NoError(t, err)

	input, err := tensor4.New[float64](tensor4.Dims{1, 2, 3, 3})
	require.NoError(t, err)
	for i := range input.Data() {
		input.Data()[i] = float64(i)
	}

	out, err := Aggregate(input, rf, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, input.Dims(), out.Dims())
	assert.Equal(t, input.Data(), out.Data())
}

func TestAggregateConstantInputIsConstant(t *testing.T) {
	// With no padding every tap lands inside, so the normalized masked sum
	// of a constant input is that constant at every output location.
	rf, err := Mask(KernelParams{KernelSize: 3, NumRotations: 1})
	require.NoError(t, err)

	input, err := tensor4.Full[float64](tensor4.Dims{2, 3, 6, 6}, 4.0)
	require.NoError(t, err)

	out, err := Aggregate(input, rf, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor4.Dims{2, 3, 4, 4}, out.Dims(), "output size (6-3)/1+1")
	for i, v := range out.Data() {
		assert.InDelta(t, 4.0, v, 1e-9, "element %d", i)
	}
}

func TestAggregateOutputSizeFormula(t *testing.T) {
	rf, err := Mask(KernelParams{KernelSize: 3, NumRotations: 1})
	require.NoError(t, err)

	input, err := tensor4.New[float32](tensor4.Dims{1, 1, 7, 9})
	require.NoError(t, err)

	out, err := Aggregate(input, rf, 2, 1)
	require.NoError(t, err)
	// floor((7+2-3)/2)+1 = 4, floor((9+2-3)/2)+1 = 5
	assert.Equal(t, tensor4.Dims{1, 1, 4, 5}, out.Dims())
}

func TestAggregatePaddingContributesZero(t *testing.T) {
	rf, err := Mask(KernelParams{KernelSize: 3, NumRotations: 1})
	require.NoError(t, err)

	input, err := tensor4.Full[float64](tensor4.Dims{1, 1, 5, 5}, 1.0)
	require.NoError(t, err)

	out, err := Aggregate(input, rf, 1, 1)
	require.NoError(t, err)
	require.Equal(t, tensor4.Dims{1, 1, 5, 5}, out.Dims())

	// Interior windows see every included tap; windows on the padded border
	// lose taps to the zero padding and can only shrink.
	interior := out.At(0, 0, 2, 2)
	assert.InDelta(t, 1.0, interior, 1e-9)
	for _, v := range out.Data() {
		assert.LessOrEqual(t, v, 1.0+1e-9)
	}
}

func TestAggregateValidation(t *testing.T) {
	rf, err := Mask(KernelParams{KernelSize: 3, NumRotations: 1})
	require.NoError(t, err)

	input, err := tensor4.New[float32](tensor4.Dims{1, 1, 4, 4})
	require.NoError(t, err)

	_, err = Aggregate(input, rf, 0, 0)
	assert.Error(t, err, "zero stride")

	_, err = Aggregate(input, rf, 1, -1)
	assert.Error(t, err, "negative padding")

	small, err := tensor4.New[float32](tensor4.Dims{1, 1, 2, 2})
	require.NoError(t, err)
	_, err = Aggregate(small, rf, 1, 0)
	assert.Error(t, err, "kernel larger than input")
}
