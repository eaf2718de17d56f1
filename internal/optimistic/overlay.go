// Package optimistic shows tentative writes on top of the last authoritative state.
//
// A Board holds the state last fetched from the server (the base) and a FIFO of
// pending values whose mutations have not resolved yet. The view a client renders
// is the base with each pending value reduced onto it in submission order. A pending
// value that fails is rolled back; one that succeeds is replaced by the refetched
// ground truth.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRefetchFailed is returned by Submit when the mutation succeeded but the
// authoritative state could not be reloaded.
var ErrRefetchFailed = errors.New("refetch after commit failed")

// Reducer folds a pending value into a state. It may modify and return state, which
// is always a private copy.
type Reducer[T any] func(state []T, value T) []T

// AppendReducer adds value at the end of state.
func AppendReducer[T any](state []T, value T) []T {
	return append(state, value)
}

// Apply returns base with pending reduced onto it. base is not modified.
func Apply[T any](base []T, pending T, reduce Reducer[T]) []T {
	if reduce == nil {
		reduce = AppendReducer[T]
	}
	return reduce(clone(base), pending)
}

// Board tracks the authoritative state and the queue of pending overlays.
type Board[T any] struct {
	mu      sync.Mutex
	base    []T
	pending []*Pending[T]
	reduce  Reducer[T]
}

// NewBoard creates a board over base. A nil reducer appends.
func NewBoard[T any](base []T, reduce Reducer[T]) *Board[T] {
	if reduce == nil {
		reduce = AppendReducer[T]
	}
	return &Board[T]{base: clone(base), reduce: reduce}
}

// Add overlays value immediately and returns the handle that resolves it.
func (b *Board[T]) Add(value T) *Pending[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &Pending[T]{board: b, value: value}
	b.pending = append(b.pending, p)
	return p
}

// View returns the base with every unresolved value applied in order.
func (b *Board[T]) View() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	view := clone(b.base)
	for _, p := range b.pending {
		view = b.reduce(view, p.value)
	}
	return view
}

// Base returns the last authoritative state.
func (b *Board[T]) Base() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clone(b.base)
}

// PendingCount returns the number of unresolved overlays.
func (b *Board[T]) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Reset replaces the base with freshly fetched state. Pending overlays stay.
func (b *Board[T]) Reset(authoritative []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.base = clone(authoritative)
}

func (b *Board[T]) resolve(p *Pending[T], newBase func([]T) []T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.resolved {
		return false
	}
	p.resolved = true
	for i, q := range b.pending {
		if q == p {
			b.pending = append(b.pending[:i:i], b.pending[i+1:]...)
			break
		}
	}
	if newBase != nil {
		b.base = newBase(b.base)
	}
	return true
}

// Pending is one overlay awaiting the outcome of its mutation. Only the first
// Commit, Confirm or Rollback has an effect.
type Pending[T any] struct {
	board    *Board[T]
	value    T
	resolved bool
}

// Value returns the tentative value.
func (p *Pending[T]) Value() T {
	return p.value
}

// Commit drops the overlay and adopts authoritative as the new base.
func (p *Pending[T]) Commit(authoritative []T) {
	p.board.resolve(p, func([]T) []T { return clone(authoritative) })
}

// Confirm drops the overlay and folds its value into the current base. Used when
// the write is known to have succeeded but fresh state is unavailable.
func (p *Pending[T]) Confirm() {
	p.board.resolve(p, func(base []T) []T { return p.board.reduce(clone(base), p.value) })
}

// Rollback drops the overlay; the view reverts to the base plus the other
// unresolved overlays.
func (p *Pending[T]) Rollback() {
	p.board.resolve(p, nil)
}

// Submit overlays value, runs mutate, and reconciles: a failed mutation rolls the
// overlay back and returns its error; a successful one refetches and commits.
func Submit[T any](ctx context.Context, b *Board[T], value T, mutate func(context.Context, T) error, refetch func(context.Context) ([]T, error)) error {
	p := b.Add(value)

	if err := mutate(ctx, value); err != nil {
		p.Rollback()
		return err
	}

	fresh, err := refetch(ctx)
	if err != nil {
		p.Confirm()
		return fmt.Errorf("%w: %v", ErrRefetchFailed, err)
	}
	p.Commit(fresh)
	return nil
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
