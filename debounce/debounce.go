// Package debounce coalesces bursts of calls to an asynchronous function
// into one trailing invocation. Every call gets its own future; only the
// last call of a burst settles with the function's outcome, earlier ones
// reject with ErrSuperseded before the delay elapses.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unkn0wn-root/memoflight/future"
)

// ErrSuperseded signals that a newer call replaced this one before its
// delay elapsed. It is a cancellation marker, not a real failure; callers
// that only care about the winning call should ignore it via errors.Is.
var ErrSuperseded = errors.New("debounce: superseded by a newer call")

// Func is the debounced function shape. It runs with the latest call's
// context and arguments.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Debouncer holds at most one pending timer and future at a time. Safe for
// concurrent use; calls are strictly ordered, each new call supersedes
// exactly the immediately prior pending one.
type Debouncer[V any] struct {
	fn    Func[V]
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *future.Future[V]
}

func New[V any](fn Func[V], delay time.Duration) *Debouncer[V] {
	return &Debouncer[V]{fn: fn, delay: delay}
}

// Call schedules fn after the configured delay and returns this call's
// future immediately. Any prior pending call is rejected with
// ErrSuperseded and its timer stopped. The winner's future settles with
// fn's outcome verbatim - value or error.
func (d *Debouncer[V]) Call(ctx context.Context, args ...any) *future.Future[V] {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersedeLocked()

	f := future.New[V]()
	d.pending = f
	d.timer = time.AfterFunc(d.delay, func() { d.fire(ctx, f, args) })
	return f
}

// Cancel rejects the pending call, if any, and stops its timer.
// Idempotent; a no-op when nothing is pending.
func (d *Debouncer[V]) Cancel() {
	d.mu.Lock()
	d.supersedeLocked()
	d.mu.Unlock()
}

func (d *Debouncer[V]) fire(ctx context.Context, f *future.Future[V], args []any) {
	d.mu.Lock()
	if d.pending != f {
		// superseded between timer fire and lock acquisition
		d.mu.Unlock()
		return
	}
	d.pending, d.timer = nil, nil
	d.mu.Unlock()

	v, err := d.fn(ctx, args...)
	if err != nil {
		f.Reject(err)
		return
	}
	f.Resolve(v)
}

func (d *Debouncer[V]) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		d.pending.Reject(ErrSuperseded)
		d.pending = nil
	}
}
