// Package tunneling implements quantum-tunneling access: a probabilistic
// memory-read redirection that, with a distance-shaped probability,
// substitutes a nearby-but-different index for the requested one.
package tunneling

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Params configures a tunneling pass. Immutable per invocation.
type Params struct {
	// BaseProbability is the tunneling probability at zero distance,
	// in [0, 1]. Zero disables redirection entirely.
	BaseProbability float64
	// Temperature shapes the exponential decay of the probability with
	// distance. Must be > 0.
	Temperature float64
	// MaxDistanceFactor caps how far a jump may travel, relative to the
	// tensor's characteristic size (sqrt of the element count). Must be >= 0.
	MaxDistanceFactor float64
	// Adaptive is reserved for future probability shaping.
	Adaptive bool
}

// DefaultParams returns a mild tunneling configuration.
func DefaultParams() Params {
	return Params{
		BaseProbability:   0.1,
		Temperature:       1.0,
		MaxDistanceFactor: 0.5,
	}
}

// Validate rejects invalid parameters before any data-dependent work.
func (p Params) Validate() error {
	if p.BaseProbability < 0 || p.BaseProbability > 1 {
		return fmt.Errorf("base probability must be in [0, 1], got %v", p.BaseProbability)
	}
	if p.Temperature <= 0 {
		return fmt.Errorf("temperature must be > 0, got %v", p.Temperature)
	}
	if p.MaxDistanceFactor < 0 {
		return fmt.Errorf("max distance factor must be >= 0, got %v", p.MaxDistanceFactor)
	}
	return nil
}

// Probability is the closed-form tunneling probability for a jump of the
// given distance through the given energy barrier:
//
//	p = min(BaseProbability * exp(-distance/(Temperature*barrier)), 1)
//
// and exactly zero when the distance exceeds MaxDistanceFactor*barrier.
// It is a pure function; the stochastic pass in Access consults it for
// every proposed jump.
func Probability(distance, energyBarrier float64, p Params) float64 {
	if energyBarrier <= 0 || distance > p.MaxDistanceFactor*energyBarrier {
		return 0
	}
	prob := p.BaseProbability * math.Exp(-distance/(p.Temperature*energyBarrier))
	return math.Min(prob, 1)
}

// Access reads the input tensor element by element and produces a tensor of
// identical shape in which some reads have been redirected to other
// locations. The input is never mutated.
//
// For each element a bounded random offset is proposed: the bound is
// MaxDistanceFactor * sqrt(N) on the batch axis and halves on each later
// axis, so the primary axis carries the dominant distance signal. The jump
// is accepted with Probability(|offset|, sqrt(N)); target indices wrap
// modulo their axis size. Rejected jumps copy the source value unchanged.
//
// The random source is explicit so boundary cases (BaseProbability 0, or
// high) are exactly reproducible under a fixed seed.
func Access[T tensor4.DType](
	input *tensor4.Tensor4D[T],
	p Params,
	rng *rand.Rand,
) (*tensor4.Tensor4D[T], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tunneling params: %w", err)
	}

	dims := input.Dims()
	out, err := tensor4.New[T](dims)
	if err != nil {
		return nil, err
	}
	if input.NumElements() == 0 {
		return out, nil
	}

	characteristic := math.Sqrt(float64(input.NumElements()))
	maxJump := p.MaxDistanceFactor * characteristic

	for i0 := 0; i0 < dims[0]; i0++ {
		for i1 := 0; i1 < dims[1]; i1++ {
			for i2 := 0; i2 < dims[2]; i2++ {
				for i3 := 0; i3 < dims[3]; i3++ {
					src := [4]int{i0, i1, i2, i3}
					if p.BaseProbability > 0 && maxJump > 0 {
						offsets, dist := proposeJump(rng, maxJump)
						if rng.Float64() < Probability(dist, characteristic, p) {
							for axis := range src {
								src[axis] = wrap(src[axis]+offsets[axis], dims[axis])
							}
						}
					}
					out.SetAt(input.At(src[0], src[1], src[2], src[3]), i0, i1, i2, i3)
				}
			}
		}
	}
	return out, nil
}

// proposeJump draws one offset per axis, uniform in [-bound, bound], with
// the bound halving on each successive axis. Returns the offsets and the
// Euclidean length of the offset vector.
func proposeJump(rng *rand.Rand, maxJump float64) ([4]int, float64) {
	var offsets [4]int
	distSq := 0.0
	bound := maxJump
	for axis := 0; axis < 4; axis++ {
		span := int(bound)
		if span > 0 {
			offsets[axis] = rng.Intn(2*span+1) - span
		}
		distSq += float64(offsets[axis] * offsets[axis])
		bound /= 2
	}
	return offsets, math.Sqrt(distSq)
}

// wrap maps an index onto [0, size) modulo the axis size.
func wrap(i, size int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}
