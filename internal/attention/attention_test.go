package attention

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

func fromValues(t *testing.T, values ...float32) *tensor4.Tensor4D[float32] {
	t.Helper()
	out, err := tensor4.FromSlice(values, tensor4.Dims{1, 1, 1, len(values)})
	require.NoError(t, err)
	return out
}

func constant(t *testing.T, n int, v float32) *tensor4.Tensor4D[float32] {
	t.Helper()
	out, err := tensor4.Full(tensor4.Dims{1, 1, 1, n}, v)
	require.NoError(t, err)
	return out
}

func TestMass(t *testing.T) {
	zero := constant(t, 4, 0)
	assert.Zero(t, Mass(zero), "mass of the zero tensor")

	x := fromValues(t, 3, 4, 0, 0)
	assert.InDelta(t, 5.0, Mass(x), 1e-9, "3-4-5 triangle")

	neg := fromValues(t, -3, -4, 0, 0)
	assert.GreaterOrEqual(t, Mass(neg), 0.0, "mass is never negative")
	assert.InDelta(t, 5.0, Mass(neg), 1e-9, "mass ignores sign")
}

func TestCosineDistance(t *testing.T) {
	a := fromValues(t, 1, 1, 1, 1)

	dist, ok, err := CosineDistance(a, a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 0.0, dist, 1e-9, "identical tensors")

	opposite := fromValues(t, -1, -1, -1, -1)
	dist, ok, err = CosineDistance(a, opposite)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, dist, 1e-9, "opposite tensors")

	zero := constant(t, 4, 0)
	_, ok, err = CosineDistance(a, zero)
	require.NoError(t, err)
	assert.False(t, ok, "zero norm leaves the distance undefined")

	short := fromValues(t, 1, 2)
	_, _, err = CosineDistance(a, short)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.Temperature = 0
	assert.Error(t, bad.Validate(), "zero temperature")

	bad = DefaultParams()
	bad.MinDistance = 0
	assert.Error(t, bad.Validate(), "zero min distance")

	bad = DefaultParams()
	bad.MassScale = -1
	assert.Error(t, bad.Validate(), "negative mass scale")
}

func TestGravityWellArityChecks(t *testing.T) {
	q := fromValues(t, 1, 2, 3, 4)
	v := fromValues(t, 1, 1, 1, 1)

	_, err := GravityWell(q, nil, nil, DefaultParams())
	assert.ErrorIs(t, err, ErrArityMismatch, "empty key set")

	_, err = GravityWell(q,
		[]*tensor4.Tensor4D[float32]{q, q},
		[]*tensor4.Tensor4D[float32]{v},
		DefaultParams())
	assert.ErrorIs(t, err, ErrArityMismatch, "unequal key/value counts")

	other, err := tensor4.New[float32](tensor4.Dims{1, 1, 2, 2})
	require.NoError(t, err)
	_, err = GravityWell(q,
		[]*tensor4.Tensor4D[float32]{q, q},
		[]*tensor4.Tensor4D[float32]{v, other},
		DefaultParams())
	assert.ErrorIs(t, err, tensor4.ErrShapeMismatch, "value shapes must agree")
}

func TestGravityWellSingleKeySoftmaxIsIdentity(t *testing.T) {
	// With one key and softmax on, the score is forced to 1 regardless of
	// distance or mass, so the output is values[0] unchanged.
	q := fromValues(t, 0.1, -0.2, 0.3, 5)
	k := fromValues(t, -9, 9, -9, 9)
	v := fromValues(t, 1.5, -2.5, 3.5, 0)

	out, err := GravityWell(q,
		[]*tensor4.Tensor4D[float32]{k},
		[]*tensor4.Tensor4D[float32]{v},
		DefaultParams())
	require.NoError(t, err)

	for i, exp := range v.Data() {
		assert.InDelta(t, exp, out.Data()[i], 1e-6, "element %d", i)
	}
}

func TestGravityWellPullsTowardAlignedKey(t *testing.T) {
	// Query identical to keys[0], opposite to keys[1]: the output must land
	// near values[0].
	q := constant(t, 4, 1)
	k0 := constant(t, 4, 1)
	k1 := constant(t, 4, -1)
	v0 := constant(t, 4, 1.0)
	v1 := constant(t, 4, 0.1)

	params := DefaultParams()
	params.Temperature = 1

	out, err := GravityWell(q,
		[]*tensor4.Tensor4D[float32]{k0, k1},
		[]*tensor4.Tensor4D[float32]{v0, v1},
		params)
	require.NoError(t, err)

	for i := range out.Data() {
		assert.InDelta(t, 1.0, out.Data()[i], 0.1, "element %d", i)
	}
}

func TestGravityWellTemperatureMonotonicity(t *testing.T) {
	// Higher temperature must move the output strictly toward the unweighted
	// average of the values.
	q := fromValues(t, 1, 1, 1, 1)
	k0 := fromValues(t, 1, 1, 1, 1)
	k1 := fromValues(t, 1, -1, 1, -1)
	v0 := constant(t, 4, 1.0)
	v1 := constant(t, 4, 0.0)
	mean := 0.5 // unweighted average of v0 and v1

	keys := []*tensor4.Tensor4D[float32]{k0, k1}
	values := []*tensor4.Tensor4D[float32]{v0, v1}

	outputAt := func(temperature float64) float64 {
		params := DefaultParams()
		params.MinDistance = 0.9 // keep the aligned score finite and close to the rest
		params.Temperature = temperature
		out, err := GravityWell(q, keys, values, params)
		require.NoError(t, err)
		return float64(out.Data()[0])
	}

	cold := outputAt(0.1)
	warm := outputAt(1)
	hot := outputAt(10)

	assert.Greater(t, cold, warm, "lower temperature sharpens toward the aligned key")
	assert.Greater(t, warm, hot, "higher temperature flattens")
	assert.Less(t, math.Abs(hot-mean), math.Abs(cold-mean),
		"hot output sits closer to the unweighted average")
}

func TestGravityWellRawScoresWithoutSoftmax(t *testing.T) {
	// With softmax off the output is the raw-score weighted sum.
	q := fromValues(t, 2, 0, 0, 0)
	k := fromValues(t, 2, 0, 0, 0)
	v := constant(t, 4, 1.0)

	params := DefaultParams()
	params.UseSoftmax = false
	params.MinDistance = 1.0 // dist floors to 1, so score = mass(q)*mass(k)

	out, err := GravityWell(q,
		[]*tensor4.Tensor4D[float32]{k},
		[]*tensor4.Tensor4D[float32]{v},
		params)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, out.Data()[0], 1e-6, "mass(q)*mass(k) = 2*2")
}

func TestGravityWellZeroQueryIsNotFatal(t *testing.T) {
	// A zero-norm query makes every distance fall back to the floor; the
	// scores are zero mass but softmax still yields a uniform distribution.
	q := constant(t, 4, 0)
	k0 := constant(t, 4, 1)
	k1 := constant(t, 4, 2)
	v0 := constant(t, 4, 1.0)
	v1 := constant(t, 4, 3.0)

	out, err := GravityWell(q,
		[]*tensor4.Tensor4D[float32]{k0, k1},
		[]*tensor4.Tensor4D[float32]{v0, v1},
		DefaultParams())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out.Data()[0], 1e-6, "uniform average of the values")
}
