// Package memoflight memoizes asynchronous producer functions over a
// pluggable byte store. A producer is any function taking a context and an
// argument tuple; memoflight derives a deterministic cache key from the
// namespace and the tuple, serves repeat calls from the store, and only
// re-invokes the producer when the entry is absent.
//
// Components:
//   - kv.Store: scoped byte store (memory, Redis, BigCache, Ristretto).
//     Two instances with distinct lifetimes are typical: a session store
//     that the janitor clears periodically and a persistent store that is
//     never auto-cleared.
//   - Codec[V]: (de)serializes V <-> []byte for store-backed memoizers.
//   - janitor.Janitor: clears the session store once a staleness interval
//     has elapsed since the last clear, on a fixed cadence.
//   - future.Future: a settle-once deferred handle.
//   - debounce.Debouncer: coalesces call bursts into one trailing
//     invocation, rejecting superseded callers.
//   - fetch.Client: abortable HTTP requests with a status-code error
//     taxonomy.
//
// Keys:
//
//	memo:<ns>:<digest>  - digest over the ordered JSON form of the args
//
// A failed producer never populates the cache; the next call with the same
// tuple invokes it again. Stored entries carry a wire header so corrupt or
// foreign bytes are deleted on read instead of being returned.
package memoflight
