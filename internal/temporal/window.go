package temporal

import "github.com/maya-ml/patterncore/internal/tensor4"

// ring is a fixed-capacity circular buffer of tensor snapshots.
//
// position is the next write slot; filled reports whether the cursor has
// wrapped at least once. Callers never see the wraparound split: snapshots
// returns a freshly built chronological slice.
type ring[T tensor4.DType] struct {
	slots    []*tensor4.Tensor4D[T]
	position int
	filled   bool
}

func newRing[T tensor4.DType](capacity int) *ring[T] {
	return &ring[T]{slots: make([]*tensor4.Tensor4D[T], capacity)}
}

// push stores a snapshot at the cursor, overwriting the oldest entry once
// the buffer has wrapped, then advances the cursor. The Filling -> Filled
// transition happens exactly when the cursor first returns to 0.
func (r *ring[T]) push(snapshot *tensor4.Tensor4D[T]) {
	r.slots[r.position] = snapshot
	r.position = (r.position + 1) % len(r.slots)
	if r.position == 0 {
		r.filled = true
	}
}

// len returns the number of snapshots currently held.
func (r *ring[T]) len() int {
	if r.filled {
		return len(r.slots)
	}
	return r.position
}

// snapshots returns the retained tensors oldest-first. While filling that is
// slots[0:position]; once filled it is the full capacity starting at the
// cursor (the slot about to be overwritten is the oldest).
func (r *ring[T]) snapshots() []*tensor4.Tensor4D[T] {
	out := make([]*tensor4.Tensor4D[T], 0, r.len())
	if !r.filled {
		return append(out, r.slots[:r.position]...)
	}
	out = append(out, r.slots[r.position:]...)
	return append(out, r.slots[:r.position]...)
}
