package memoflight

import (
	"context"

	c "github.com/unkn0wn-root/memoflight/codec"
	"github.com/unkn0wn-root/memoflight/kv"
)

// Func is the producer shape: an asynchronous function of an argument
// tuple. The tuple must serialize deterministically (plain values, structs,
// maps, slices); see internal key derivation for what "deterministic" means.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Memoizer is the high-level, store-agnostic memoization API.
// V is the producer's result type.
type Memoizer[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Do returns the memoized result for the argument tuple, invoking the
	// producer on a miss. ok=false means no value exists: either the
	// producer failed (its error is swallowed here and reported via Hooks)
	// or the memoizer is disabled and the direct call failed. A stored
	// zero/empty value is a hit, never confused with absence.
	Do(ctx context.Context, args ...any) (v V, ok bool, err error)

	// Forget drops the entry for one argument tuple.
	Forget(ctx context.Context, args ...any) error

	// Flush drops every entry in the backing scope.
	Flush(ctx context.Context) error
}

// Options tune a Memoizer. Namespace and Producer are required; Codec is
// required when Store is set.
type Options[V any] struct {
	// Required
	Namespace string  // isolates memoized functions sharing one store, e.g. "user", "rates"
	Producer  Func[V] // the function being memoized

	// Store is the backing scope. nil selects an in-process native map:
	// results are held unserialized for the life of the process and Codec
	// is ignored.
	Store kv.Store
	Codec c.Codec[V]

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	// SingleFlight coalesces concurrent misses for the same key so the
	// producer runs once and all callers share the result. Default false:
	// concurrent misses may each invoke the producer, matching the
	// historical behavior some callers rely on.
	SingleFlight bool

	Disabled bool // bypass the store entirely (straight producer calls)
}

func New[V any](opts Options[V]) (Memoizer[V], error) {
	return newMemoizer[V](opts)
}
