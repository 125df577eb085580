// Package spiral implements the spiral receptive-field operator: a square
// neighborhood mask whose included taps follow a logarithmic-spiral arc
// rather than a dense grid, and a depthwise aggregation that applies it with
// standard sliding-window semantics.
package spiral

import (
	"fmt"
	"math"

	"github.com/maya-ml/patterncore/internal/tensor4"
)

// KernelParams configures a spiral receptive field.
type KernelParams struct {
	// KernelSize is the side of the square neighborhood. Must be odd and >= 1.
	KernelSize int
	// NumRotations is the number of full turns the spiral locus makes from
	// center to edge. Must be > 0.
	NumRotations int
}

// Validate rejects invalid parameters before any mask is built.
func (p KernelParams) Validate() error {
	if p.KernelSize < 1 || p.KernelSize%2 == 0 {
		return fmt.Errorf("kernel size must be odd and >= 1, got %d", p.KernelSize)
	}
	if p.NumRotations <= 0 {
		return fmt.Errorf("num rotations must be > 0, got %d", p.NumRotations)
	}
	return nil
}

// ReceptiveField is a kernel_size x kernel_size weighting mask. Included
// cells carry weight 1, excluded cells 0; Included is the pinned cell count
// used to normalize aggregation.
type ReceptiveField struct {
	Size     int
	Weights  []float64
	Included int
}

// At returns the mask weight at cell (x, y).
func (rf *ReceptiveField) At(x, y int) float64 {
	return rf.Weights[y*rf.Size+x]
}

// Mask builds the spiral receptive field for the given parameters.
//
// For each cell the angle around the center (mapped to [0, 2pi)) is turned
// into a spiral radius angle / (2pi * rotations); the cell is included iff
// its distance from the center is at most spiralRadius * center * 1.5. The
// included-cell count therefore grows along the spiral arc instead of a
// uniform disc.
func Mask(p KernelParams) (*ReceptiveField, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spiral params: %w", err)
	}

	k := p.KernelSize
	center := float64(k-1) / 2
	rf := &ReceptiveField{
		Size:    k,
		Weights: make([]float64, k*k),
	}

	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			distance := math.Sqrt(dx*dx + dy*dy)
			angle := math.Atan2(dy, dx) + math.Pi // [0, 2pi)
			spiralRadius := angle / (2 * math.Pi * float64(p.NumRotations))
			if distance <= spiralRadius*center*1.5 {
				rf.Weights[y*k+x] = 1
				rf.Included++
			}
		}
	}
	return rf, nil
}

// Aggregate applies the receptive field as a depthwise sliding-window
// aggregation: for every output location the masked neighborhood values are
// summed and normalized by the included-cell count. Batch and channel axes
// are preserved; spatial output sizes follow the standard convolution
// formula floor((in + 2*padding - kernel)/stride) + 1. Out-of-bounds taps
// under padding contribute zero.
func Aggregate[T tensor4.DType](
	input *tensor4.Tensor4D[T],
	rf *ReceptiveField,
	stride, padding int,
) (*tensor4.Tensor4D[T], error) {
	if stride < 1 {
		return nil, fmt.Errorf("stride must be >= 1, got %d", stride)
	}
	if padding < 0 {
		return nil, fmt.Errorf("padding must be >= 0, got %d", padding)
	}

	dims := input.Dims()
	inH, inW := dims[tensor4.AxisHeight], dims[tensor4.AxisWidth]
	outH := (inH+2*padding-rf.Size)/stride + 1
	outW := (inW+2*padding-rf.Size)/stride + 1
	if outH < 1 || outW < 1 {
		return nil, fmt.Errorf("kernel size %d exceeds padded input %dx%d",
			rf.Size, inH+2*padding, inW+2*padding)
	}

	out, err := tensor4.New[T](tensor4.Dims{dims[0], dims[1], outH, outW})
	if err != nil {
		return nil, err
	}
	if rf.Included == 0 {
		return out, nil
	}

	norm := 1 / float64(rf.Included)
	for b := 0; b < dims[0]; b++ {
		for c := 0; c < dims[1]; c++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					sum := 0.0
					for ky := 0; ky < rf.Size; ky++ {
						iy := oy*stride + ky - padding
						if iy < 0 || iy >= inH {
							continue
						}
						for kx := 0; kx < rf.Size; kx++ {
							ix := ox*stride + kx - padding
							if ix < 0 || ix >= inW {
								continue
							}
							if w := rf.At(kx, ky); w != 0 {
								sum += w * float64(input.At(b, c, iy, ix))
							}
						}
					}
					out.SetAt(T(sum*norm), b, c, oy, ox)
				}
			}
		}
	}
	return out, nil
}
