// Package attention implements gravity-well attention: a scoring scheme
// where the affinity between a query and a key grows with their combined
// mass (L2 norm) and shrinks with the square of their cosine distance.
package attention

import (
	"errors"
	"fmt"
	"math"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

// Common errors.
var (
	ErrArityMismatch  = errors.New("keys and values must have the same non-zero length")
	ErrLengthMismatch = errors.New("tensors must have the same element count")
)

// Params configures a gravity-well attention invocation. Immutable per call.
type Params struct {
	// MassScale scales the raw gravitational score. Must be >= 0.
	MassScale float64
	// MinDistance is the floor applied to the cosine distance before the
	// inverse-square, avoiding division by zero. Must be > 0.
	MinDistance float64
	// Temperature divides the raw scores before softmax. Low values sharpen
	// the distribution toward the best-aligned key, high values flatten it
	// toward a uniform average. Must be > 0.
	Temperature float64
	// UseSoftmax normalizes the scores to sum to 1.
	UseSoftmax bool
}

// DefaultParams returns the parameters used when no explicit configuration
// is given: unit mass scale and temperature, softmax on.
func DefaultParams() Params {
	return Params{
		MassScale:   1.0,
		MinDistance: 1e-6,
		Temperature: 1.0,
		UseSoftmax:  true,
	}
}

// Validate rejects invalid parameters before any data-dependent work.
func (p Params) Validate() error {
	if p.MassScale < 0 {
		return fmt.Errorf("mass scale must be >= 0, got %v", p.MassScale)
	}
	if p.MinDistance <= 0 {
		return fmt.Errorf("min distance must be > 0, got %v", p.MinDistance)
	}
	if p.Temperature <= 0 {
		return fmt.Errorf("temperature must be > 0, got %v", p.Temperature)
	}
	return nil
}

// Mass returns the Euclidean (L2) norm of the tensor's flattened values,
// used as a proxy for signal energy. Always >= 0.
func Mass[T tensor4.DType](t *tensor4.Tensor4D[T]) float64 {
	sum := 0.0
	for _, v := range t.Data() {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// CosineDistance returns 1 - cos(a, b) over the flattened buffers.
// The tensors need not share a shape, only an element count.
//
// If either norm is zero the distance is undefined; the second return is
// false and callers fall back to their configured floor.
func CosineDistance[T tensor4.DType](a, b *tensor4.Tensor4D[T]) (float64, bool, error) {
	if a.NumElements() != b.NumElements() {
		return 0, false, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.NumElements(), b.NumElements())
	}
	var dot, normA, normB float64
	ad, bd := a.Data(), b.Data()
	for i := range ad {
		x, y := float64(ad[i]), float64(bd[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false, nil
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), true, nil
}

// GravityWell computes distance/mass-weighted attention over the query and
// the (key, value) pairs, returning a freshly allocated aggregate shaped
// like values[0]. No input is mutated.
//
// For each key i:
//
//	raw[i] = MassScale * mass(query) * mass(keys[i]) / max(dist, MinDistance)^2
//
// with dist the cosine distance between query and keys[i]. Raw scores are
// divided by Temperature and, if UseSoftmax, normalized with a
// max-subtracted softmax. A zero softmax sum leaves all scores at zero;
// that is a degenerate data state, not an error.
//
// Keys must match the query's element count; values must all share one
// shape, which the output inherits.
func GravityWell[T tensor4.DType](
	query *tensor4.Tensor4D[T],
	keys, values []*tensor4.Tensor4D[T],
	p Params,
) (*tensor4.Tensor4D[T], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid attention params: %w", err)
	}
	if len(keys) == 0 || len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys, %d values", ErrArityMismatch, len(keys), len(values))
	}
	outDims := values[0].Dims()
	for i, v := range values[1:] {
		if !v.Dims().Equal(outDims) {
			return nil, fmt.Errorf("%w: values[0] is %v, values[%d] is %v",
				tensor4.ErrShapeMismatch, outDims, i+1, v.Dims())
		}
	}

	queryMass := Mass(query)
	scores := make([]float64, len(keys))
	for i, key := range keys {
		dist, ok, err := CosineDistance(query, key)
		if err != nil {
			return nil, fmt.Errorf("keys[%d]: %w", i, err)
		}
		if !ok || dist < p.MinDistance {
			dist = p.MinDistance
		}
		scores[i] = p.MassScale * queryMass * Mass(key) / (dist * dist)
		scores[i] /= p.Temperature
	}

	if p.UseSoftmax {
		softmaxInPlace(scores)
	}

	out, err := tensor4.New[T](outDims)
	if err != nil {
		return nil, err
	}
	outData := out.Data()
	for i, value := range values {
		score := scores[i]
		if score == 0 {
			continue
		}
		for j, v := range value.Data() {
			outData[j] += T(score * float64(v))
		}
	}
	return out, nil
}

// softmaxInPlace normalizes scores to sum to 1 using the max-subtraction
// trick for numerical stability. A zero exponential sum leaves all scores
// at zero.
func softmaxInPlace(scores []float64) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	sum := 0.0
	for i, s := range scores {
		scores[i] = math.Exp(s - maxScore)
		sum += scores[i]
	}
	if sum == 0 {
		for i := range scores {
			scores[i] = 0
		}
		return
	}
	for i := range scores {
		scores[i] /= sum
	}
}
