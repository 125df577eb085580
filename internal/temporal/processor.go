// Package temporal implements the sliding-window processor: a bounded
// chronological history of tensor snapshots that is re-aggregated with
// gravity-well self-attention on every observation.
package temporal

import (
	"errors"
	"fmt"

	"github.com/maya-ml/patterncore/internal/attention"
	"github.com/maya-ml/patterncore/internal/tensor4"
)

// ErrNilTensor is returned by Observe when given a nil tensor.
var ErrNilTensor = errors.New("cannot observe a nil tensor")

// Config configures a Processor.
type Config struct {
	// WindowSize is the snapshot capacity of the window. Must be >= 1.
	WindowSize int
	// Stride subsamples ingestion: only every stride-th observation is
	// snapshotted into the window. Must be >= 1; 1 retains everything.
	Stride int
	// Attention parameterizes the self-attention pass over the window.
	Attention attention.Params
}

// DefaultConfig returns a window of eight snapshots, no subsampling, and
// default attention parameters.
func DefaultConfig() Config {
	return Config{
		WindowSize: 8,
		Stride:     1,
		Attention:  attention.DefaultParams(),
	}
}

// Processor holds a bounded circular history of tensor snapshots. On each
// observation it (possibly) ingests a deep copy of the tensor, then runs
// gravity-well self-attention across the current window with the oldest
// snapshot as the query.
//
// A Processor is not safe for concurrent use: Observe mutates the cursor and
// the buffer, so concurrent calls on the same instance must be serialized by
// the caller. The internal buffer is never exposed.
type Processor[T tensor4.DType] struct {
	cfg      Config
	window   *ring[T]
	observed int // total Observe calls, drives stride subsampling
}

// NewProcessor validates the configuration and returns an empty processor.
// All configuration errors are rejected here, before any data work.
func NewProcessor[T tensor4.DType](cfg Config) (*Processor[T], error) {
	if cfg.WindowSize < 1 {
		return nil, fmt.Errorf("window size must be >= 1, got %d", cfg.WindowSize)
	}
	if cfg.Stride < 1 {
		return nil, fmt.Errorf("stride must be >= 1, got %d", cfg.Stride)
	}
	if err := cfg.Attention.Validate(); err != nil {
		return nil, fmt.Errorf("invalid attention params: %w", err)
	}
	return &Processor[T]{
		cfg:    cfg,
		window: newRing[T](cfg.WindowSize),
	}, nil
}

// Observe ingests one tensor for this time step and returns the
// attention-aggregated view of the current window. The caller keeps
// ownership of the tensor it passed in (the window stores a deep copy) and
// owns the returned tensor.
//
// If ingestion fails the window is left exactly as it was: the copy is taken
// before the cursor moves or any snapshot is evicted.
func (p *Processor[T]) Observe(t *tensor4.Tensor4D[T]) (*tensor4.Tensor4D[T], error) {
	if t == nil {
		return nil, ErrNilTensor
	}

	// Reject incompatible shapes before touching the window, so a failed
	// observation never advances the cursor or evicts a snapshot.
	if p.window.len() > 0 {
		if have := p.window.snapshots()[0].Dims(); !have.Equal(t.Dims()) {
			return nil, fmt.Errorf("%w: window holds %v, observed %v",
				tensor4.ErrShapeMismatch, have, t.Dims())
		}
	}

	if p.observed%p.cfg.Stride == 0 {
		p.window.push(t.Clone())
	}
	p.observed++

	window := p.window.snapshots()
	// The first observation is always ingested, so the window is never empty
	// here. Query with the oldest snapshot, self-attend across the window.
	out, err := attention.GravityWell(window[0], window, window, p.cfg.Attention)
	if err != nil {
		return nil, fmt.Errorf("window attention: %w", err)
	}
	return out, nil
}

// Window returns deep copies of the retained snapshots, oldest first.
// Copies keep the internal buffer unobservable mid-mutation by contract.
func (p *Processor[T]) Window() []*tensor4.Tensor4D[T] {
	snapshots := p.window.snapshots()
	out := make([]*tensor4.Tensor4D[T], len(snapshots))
	for i, s := range snapshots {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of snapshots currently retained.
func (p *Processor[T]) Len() int {
	return p.window.len()
}

// Cap returns the configured window size.
func (p *Processor[T]) Cap() int {
	return p.cfg.WindowSize
}

// Filled reports whether the window has wrapped at least once.
func (p *Processor[T]) Filled() bool {
	return p.window.filled
}
