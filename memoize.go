package memoflight

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/memoflight/codec"
	"github.com/unkn0wn-root/memoflight/internal/keys"
	"github.com/unkn0wn-root/memoflight/internal/singleflight"
	"github.com/unkn0wn-root/memoflight/internal/wire"
	"github.com/unkn0wn-root/memoflight/kv"
)

type memoizer[V any] struct {
	ns      string
	fn      Func[V]
	store   kv.Store
	codec   c.Codec[V]
	log     Logger
	hooks   Hooks
	enabled bool
	group   *singleflight.Group // nil unless SingleFlight
}

func newMemoizer[V any](opts Options[V]) (Memoizer[V], error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("memoflight: namespace is required")
	}
	if opts.Producer == nil {
		return nil, fmt.Errorf("memoflight: producer is required")
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})

	var group *singleflight.Group
	if opts.SingleFlight {
		group = singleflight.New()
	}

	if opts.Store == nil {
		// native backing: in-process, never serialized
		return newNative[V](opts, log, hooks, group), nil
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("memoflight: codec is required with a store backing")
	}

	return &memoizer[V]{
		ns:      opts.Namespace,
		fn:      opts.Producer,
		store:   opts.Store,
		codec:   opts.Codec,
		log:     log,
		hooks:   hooks,
		enabled: !opts.Disabled,
		group:   group,
	}, nil
}

func (m *memoizer[V]) Enabled() bool { return m.enabled }

func (m *memoizer[V]) Close(ctx context.Context) error {
	return m.store.Close(ctx)
}

func (m *memoizer[V]) Do(ctx context.Context, args ...any) (V, bool, error) {
	var zero V
	if !m.enabled {
		return m.direct(ctx, args)
	}

	key, err := keys.ArgsKey(args)
	if err != nil {
		// the tuple has no stable form; serve the call uncached
		m.log.Warn("argument tuple not serializable; bypassing cache", Fields{"namespace": m.ns, "err": err})
		return m.direct(ctx, args)
	}
	sk := m.storageKey(key)

	if v, ok := m.lookup(ctx, sk); ok {
		m.hooks.Hit(m.ns, sk)
		return v, true, nil
	}
	m.hooks.Miss(m.ns, sk)

	if m.group != nil {
		res, _ := m.group.Do(sk, func() (any, error) {
			v, ok := m.produce(ctx, sk, args)
			return produced[V]{val: v, ok: ok}, nil
		})
		if p := res.(produced[V]); p.ok {
			return p.val, true, nil
		}
	} else if v, ok := m.produce(ctx, sk, args); ok {
		return v, true, nil
	}

	// The producer failed. A concurrent caller may have populated the key
	// in the meantime, so the final answer is whatever the store holds now.
	if v, ok := m.lookup(ctx, sk); ok {
		return v, true, nil
	}
	return zero, false, nil
}

func (m *memoizer[V]) Forget(ctx context.Context, args ...any) error {
	key, err := keys.ArgsKey(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotSerializable, err)
	}
	return m.store.Del(ctx, m.storageKey(key))
}

func (m *memoizer[V]) Flush(ctx context.Context) error {
	return m.store.Clear(ctx)
}

type produced[V any] struct {
	val V
	ok  bool
}

// direct serves a call without touching the store (disabled or unkeyable).
func (m *memoizer[V]) direct(ctx context.Context, args []any) (V, bool, error) {
	var zero V
	v, err := m.fn(ctx, args...)
	if err != nil {
		m.hooks.ProducerError(m.ns, "", err)
		m.log.Debug("producer failed", Fields{"namespace": m.ns, "err": err})
		return zero, false, nil
	}
	return v, true, nil
}

// produce runs the producer and, only on success, writes the entry.
// Write failures never change the returned value.
func (m *memoizer[V]) produce(ctx context.Context, sk string, args []any) (V, bool) {
	var zero V
	v, err := m.fn(ctx, args...)
	if err != nil {
		perr := &ProducerError{Namespace: m.ns, Key: sk, Err: err}
		m.hooks.ProducerError(m.ns, sk, err)
		m.log.Debug("producer failed; entry stays absent", Fields{"namespace": m.ns, "key": sk, "err": perr})
		return zero, false
	}

	payload, err := m.codec.Encode(v)
	if err != nil {
		m.hooks.StoreSetError(sk, err)
		m.log.Warn("result not storable", Fields{"namespace": m.ns, "key": sk, "err": err})
		return v, true
	}
	raw := wire.EncodeEntry(time.Now().UnixMilli(), payload)
	if err := m.store.Set(ctx, sk, raw); err != nil {
		m.hooks.StoreSetError(sk, err)
		m.log.Warn("store write failed", Fields{"namespace": m.ns, "key": sk, "err": err})
	}
	return v, true
}

func (m *memoizer[V]) lookup(ctx context.Context, sk string) (V, bool) {
	var zero V
	raw, ok, err := m.store.Get(ctx, sk)
	if err != nil {
		m.log.Warn("store read failed", Fields{"namespace": m.ns, "key": sk, "err": err})
		return zero, false
	}
	if !ok {
		return zero, false
	}
	_, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = m.store.Del(ctx, sk) // self-heal corrupt
		m.hooks.SelfHeal(sk, "corrupt")
		return zero, false
	}
	v, err := m.codec.Decode(payload)
	if err != nil {
		_ = m.store.Del(ctx, sk) // self-heal
		m.hooks.SelfHeal(sk, "value_decode")
		return zero, false
	}
	return v, true
}

func (m *memoizer[V]) storageKey(key string) string {
	// isolate by namespace
	return "memo:" + m.ns + ":" + key
}
