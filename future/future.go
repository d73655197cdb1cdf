// Package future provides a settle-once deferred handle: a value that code
// outside its creator can resolve or reject exactly once while any number
// of consumers wait on it.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrRejected is used when Reject is called with a nil error, so a
// rejected future never masquerades as a resolved one.
var ErrRejected = errors.New("future: rejected")

// Future is a tri-state handle: pending until the first Resolve or Reject,
// then permanently settled. Safe for concurrent use.
type Future[V any] struct {
	mu      sync.Mutex
	done    chan struct{}
	val     V
	err     error
	settled bool
}

func New[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Resolve settles the future with a value. Reports false when the future
// was already settled (the call is then a no-op).
func (f *Future[V]) Resolve(v V) bool {
	return f.settle(v, nil)
}

// Reject settles the future with an error. A nil err is coerced to
// ErrRejected. Reports false when already settled.
func (f *Future[V]) Reject(err error) bool {
	var zero V
	if err == nil {
		err = ErrRejected
	}
	return f.settle(zero, err)
}

func (f *Future[V]) settle(v V, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settled {
		return false
	}
	f.val, f.err, f.settled = v, err, true
	close(f.done)
	return true
}

// Done is closed once the future settles.
func (f *Future[V]) Done() <-chan struct{} { return f.done }

func (f *Future[V]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Peek returns the outcome without blocking; ok=false while pending.
func (f *Future[V]) Peek() (v V, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val, f.err, f.settled
}

// Wait blocks until the future settles or ctx ends. A ctx error abandons
// the wait only; the future itself stays pending for other consumers.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
