// Package singleflight coalesces concurrent calls per key: one owner runs
// the function, waiters block and receive the same result.
package singleflight

import "sync"

// Group manages a set of in-flight calls to prevent duplicate work.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

func New() *Group {
	return &Group{m: make(map[string]*call)}
}

// Do executes fn, making sure only one execution is in-flight for key at a
// time. Duplicate callers wait for the original and receive its results.
// The key is forgotten as soon as the call completes; memoization of the
// result is the caller's concern.
func (g *Group) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	c := &call{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
	c.wg.Done()

	return c.val, c.err
}
