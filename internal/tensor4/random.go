package tensor4

import "math/rand"

// RandomFill fills the tensor with values drawn uniformly from [min, max).
// The random source is explicit so fixtures are reproducible; there is no
// package-global generator.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	t.RandomFill(rng, -1, 1)
func (t *Tensor4D[T]) RandomFill(rng *rand.Rand, min, max T) {
	span := float64(max) - float64(min)
	for i := range t.data {
		t.data[i] = min + T(rng.Float64()*span)
	}
}
