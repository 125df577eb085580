package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

func constant(t *testing.T, v float32) *tensor4.Tensor4D[float32] {
	t.Helper()
	out, err := tensor4.Full(tensor4.Dims{1, 1, 1, 4}, v)
	require.NoError(t, err)
	return out
}

func TestNewProcessorValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 0
	_, err := NewProcessor[float32](cfg)
	assert.Error(t, err, "zero window size is a construction-time error")

	cfg = DefaultConfig()
	cfg.Stride = 0
	_, err = NewProcessor[float32](cfg)
	assert.Error(t, err, "zero stride")

	cfg = DefaultConfig()
	cfg.Attention.Temperature = 0
	_, err = NewProcessor[float32](cfg)
	assert.Error(t, err, "invalid attention params")
}

func TestObserveSingleSnapshotReturnsIt(t *testing.T) {
	p, err := NewProcessor[float32](DefaultConfig())
	require.NoError(t, err)

	in := constant(t, 2.5)
	out, err := p.Observe(in)
	require.NoError(t, err)

	// One snapshot + softmax: the aggregate is the snapshot itself.
	for i, v := range out.Data() {
		assert.InDelta(t, 2.5, v, 1e-6, "element %d", i)
	}
	assert.Equal(t, 1, p.Len())
	assert.False(t, p.Filled())
}

func TestFillingToFilledTransition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 3
	p, err := NewProcessor[float32](cfg)
	require.NoError(t, err)

	transitions := 0
	wasFilled := false
	for i := 0; i < cfg.WindowSize+1; i++ {
		_, err := p.Observe(constant(t, float32(i+1)))
		require.NoError(t, err)
		if p.Filled() && !wasFilled {
			transitions++
			wasFilled = true
			assert.Equal(t, cfg.WindowSize, i+1,
				"transition must happen at the window_size-th observation")
		}
	}
	assert.Equal(t, 1, transitions, "Filling -> Filled happens exactly once")
	assert.Equal(t, cfg.WindowSize, p.Len())
}

func TestOldestSnapshotIsEvicted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 3
	p, err := NewProcessor[float32](cfg)
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		_, err := p.Observe(constant(t, float32(i)))
		require.NoError(t, err)
	}

	window := p.Window()
	require.Len(t, window, 3)
	// Observation 1 was evicted; 2, 3, 4 remain oldest-first.
	assert.InDelta(t, 2.0, window[0].At(0, 0, 0, 0), 1e-6)
	assert.InDelta(t, 3.0, window[1].At(0, 0, 0, 0), 1e-6)
	assert.InDelta(t, 4.0, window[2].At(0, 0, 0, 0), 1e-6)
}

func TestWindowIsChronologicalAcrossWraparound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 4
	p, err := NewProcessor[float32](cfg)
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		_, err := p.Observe(constant(t, float32(i)))
		require.NoError(t, err)
	}

	window := p.Window()
	require.Len(t, window, 4)
	for i, want := range []float32{7, 8, 9, 10} {
		assert.InDelta(t, want, window[i].At(0, 0, 0, 0), 1e-6, "slot %d", i)
	}
}

func TestObserveStoresDeepCopies(t *testing.T) {
	p, err := NewProcessor[float32](DefaultConfig())
	require.NoError(t, err)

	in := constant(t, 1)
	_, err = p.Observe(in)
	require.NoError(t, err)

	// Caller keeps ownership: mutating the observed tensor afterwards must
	// not leak into the window.
	in.Fill(99)
	window := p.Window()
	assert.InDelta(t, 1.0, window[0].At(0, 0, 0, 0), 1e-6)

	// And the handed-out window is itself a copy.
	window[0].Fill(-5)
	assert.InDelta(t, 1.0, p.Window()[0].At(0, 0, 0, 0), 1e-6)
}

func TestObserveShapeMismatchLeavesWindowUntouched(t *testing.T) {
	p, err := NewProcessor[float32](DefaultConfig())
	require.NoError(t, err)

	_, err = p.Observe(constant(t, 1))
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	other, err := tensor4.New[float32](tensor4.Dims{1, 1, 2, 2})
	require.NoError(t, err)
	_, err = p.Observe(other)
	assert.ErrorIs(t, err, tensor4.ErrShapeMismatch)

	assert.Equal(t, 1, p.Len(), "failed observe must not advance the window")
	assert.False(t, p.Filled())
}

func TestObserveNilTensor(t *testing.T) {
	p, err := NewProcessor[float32](DefaultConfig())
	require.NoError(t, err)
	_, err = p.Observe(nil)
	assert.ErrorIs(t, err, ErrNilTensor)
}

func TestStrideSubsamplesIngestion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 8
	cfg.Stride = 3
	p, err := NewProcessor[float32](cfg)
	require.NoError(t, err)

	// Observations 1..7 with stride 3 snapshot only 1, 4 and 7.
	for i := 1; i <= 7; i++ {
		_, err := p.Observe(constant(t, float32(i)))
		require.NoError(t, err)
	}

	window := p.Window()
	require.Len(t, window, 3)
	for i, want := range []float32{1, 4, 7} {
		assert.InDelta(t, want, window[i].At(0, 0, 0, 0), 1e-6, "slot %d", i)
	}
}

func TestObserveAggregateIsWithinValueRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 4
	p, err := NewProcessor[float32](cfg)
	require.NoError(t, err)

	var out *tensor4.Tensor4D[float32]
	for i := 1; i <= 4; i++ {
		out, err = p.Observe(constant(t, float32(i)))
		require.NoError(t, err)
	}

	// Softmax scores sum to 1, so the aggregate of constant snapshots lies
	// within the span of the observed constants.
	v := out.At(0, 0, 0, 0)
	assert.GreaterOrEqual(t, v, float32(1))
	assert.LessOrEqual(t, v, float32(4))
}
