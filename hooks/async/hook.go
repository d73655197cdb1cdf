// Package asynchook decouples hook sinks from the memoizer's hot path:
// events are queued and delivered by background workers. When the queue is
// full the event is dropped rather than blocking a cache operation.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/memoflight"
)

type Hooks struct {
	inner memoflight.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ memoflight.Hooks = (*Hooks)(nil)

func New(inner memoflight.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Hook methods called
// after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
	})
	h.wg.Wait()
}

func (h *Hooks) enqueue(f func()) {
	defer func() {
		// sending on the closed queue after Close: drop
		_ = recover()
	}()
	select {
	case h.q <- f:
	default:
		// queue full: drop rather than block the caller
	}
}

func (h *Hooks) Hit(ns, key string) {
	h.enqueue(func() { h.inner.Hit(ns, key) })
}

func (h *Hooks) Miss(ns, key string) {
	h.enqueue(func() { h.inner.Miss(ns, key) })
}

func (h *Hooks) ProducerError(ns, key string, err error) {
	h.enqueue(func() { h.inner.ProducerError(ns, key, err) })
}

func (h *Hooks) SelfHeal(key, reason string) {
	h.enqueue(func() { h.inner.SelfHeal(key, reason) })
}

func (h *Hooks) StoreSetError(key string, err error) {
	h.enqueue(func() { h.inner.StoreSetError(key, err) })
}
