// Package codec serializes memoized results to bytes for store-backed
// memoizers. Pick one codec per memoizer; switching codecs on a live scope
// makes existing entries undecodable (they self-heal away on read).
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
