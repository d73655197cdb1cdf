// Package memory provides an in-process kv.Store. It is the default
// session scope: entries live until Clear or process exit and are held as
// the exact bytes that were Set.
package memory

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/memoflight/kv"
)

type Store struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	b, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	// copy so later caller mutation cannot corrupt the stored entry
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.m[key] = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.m = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

// Len reports the number of entries currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
