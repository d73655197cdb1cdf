// Package kv defines the scoped key/value store abstraction used by
// memoflight, plus typed read helpers with swallow-to-default semantics.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key. A Store is a
// single scope; Clear wipes that scope only. Two scopes are conventional:
// a "session" store that the janitor clears periodically, and a "persistent"
// store that is never auto-cleared.
package kv

import (
	"context"
	"encoding/json"
	"strings"
)

// Store is a minimal scoped byte store. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, silently overwriting.
	Set(ctx context.Context, key string, value []byte) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Clear removes every entry in this store's scope.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// GetString returns the raw value under key, or def when the key is absent
// or the read fails. def may be empty.
func GetString(ctx context.Context, s Store, key, def string) string {
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return string(b)
}

// SetJSON marshals v and stores its JSON form. When v has no JSON form
// nothing is stored; the returned error is advisory and callers that want
// the historical fire-and-forget behavior may ignore it.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, b)
}

// GetJSON parses the value under key into a T. Absence, read failure and
// malformed payloads all yield def - never an error.
func GetJSON[T any](ctx context.Context, s Store, key string, def T) T {
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return def
	}
	return v
}

// GetBool reports whether the value under key equals "true"
// case-insensitively. def stands in only when the key is absent, so an
// absent key with def "" is false: a truthy-looking non-"true" default
// never yields true.
func GetBool(ctx context.Context, s Store, key, def string) bool {
	return strings.EqualFold(GetString(ctx, s, key, def), "true")
}
