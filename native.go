package memoflight

import (
	"context"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/memoflight/internal/keys"
	"github.com/unkn0wn-root/memoflight/internal/singleflight"
)

// native holds results in a plain map for the life of the process. Values
// are never serialized, so V needs no codec and may carry non-encodable
// state (connections, closures). Entries survive until Forget/Flush.
type native[V any] struct {
	ns      string
	fn      Func[V]
	log     Logger
	hooks   Hooks
	enabled bool
	group   *singleflight.Group

	mu sync.RWMutex
	m  map[string]V
}

func newNative[V any](opts Options[V], log Logger, hooks Hooks, group *singleflight.Group) *native[V] {
	return &native[V]{
		ns:      opts.Namespace,
		fn:      opts.Producer,
		log:     log,
		hooks:   hooks,
		enabled: !opts.Disabled,
		group:   group,
		m:       make(map[string]V),
	}
}

func (n *native[V]) Enabled() bool               { return n.enabled }
func (n *native[V]) Close(context.Context) error { return nil }

func (n *native[V]) Flush(context.Context) error {
	n.mu.Lock()
	n.m = make(map[string]V)
	n.mu.Unlock()
	return nil
}

func (n *native[V]) Do(ctx context.Context, args ...any) (V, bool, error) {
	var zero V
	if !n.enabled {
		return n.direct(ctx, args)
	}

	key, err := keys.ArgsKey(args)
	if err != nil {
		n.log.Warn("argument tuple not serializable; bypassing cache", Fields{"namespace": n.ns, "err": err})
		return n.direct(ctx, args)
	}
	sk := "memo:" + n.ns + ":" + key

	if v, ok := n.get(sk); ok {
		n.hooks.Hit(n.ns, sk)
		return v, true, nil
	}
	n.hooks.Miss(n.ns, sk)

	if n.group != nil {
		res, _ := n.group.Do(sk, func() (any, error) {
			v, ok := n.produce(ctx, sk, args)
			return produced[V]{val: v, ok: ok}, nil
		})
		if p := res.(produced[V]); p.ok {
			return p.val, true, nil
		}
	} else if v, ok := n.produce(ctx, sk, args); ok {
		return v, true, nil
	}

	if v, ok := n.get(sk); ok {
		return v, true, nil
	}
	return zero, false, nil
}

func (n *native[V]) Forget(_ context.Context, args ...any) error {
	key, err := keys.ArgsKey(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	sk := "memo:" + n.ns + ":" + key
	n.mu.Lock()
	delete(n.m, sk)
	n.mu.Unlock()
	return nil
}

func (n *native[V]) direct(ctx context.Context, args []any) (V, bool, error) {
	var zero V
	v, err := n.fn(ctx, args...)
	if err != nil {
		n.hooks.ProducerError(n.ns, "", err)
		n.log.Debug("producer failed", Fields{"namespace": n.ns, "err": err})
		return zero, false, nil
	}
	return v, true, nil
}

func (n *native[V]) produce(ctx context.Context, sk string, args []any) (V, bool) {
	var zero V
	v, err := n.fn(ctx, args...)
	if err != nil {
		n.hooks.ProducerError(n.ns, sk, err)
		n.log.Debug("producer failed; entry stays absent", Fields{"namespace": n.ns, "key": sk, "err": err})
		return zero, false
	}
	n.mu.Lock()
	n.m[sk] = v
	n.mu.Unlock()
	return v, true
}

func (n *native[V]) get(sk string) (V, bool) {
	n.mu.RLock()
	v, ok := n.m[sk]
	n.mu.RUnlock()
	return v, ok
}
