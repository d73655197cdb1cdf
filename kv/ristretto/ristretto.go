// Package ristretto provides a Ristretto-backed kv.Store: a session scope
// with cost-based admission, sized by total value bytes.
package ristretto

import (
	"context"
	"errors"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/memoflight/kv"
)

type Store struct {
	c *rc.Cache
}

var _ kv.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // budget in value bytes
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto store: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	// admission may reject under pressure; that is a cache miss later,
	// not an error
	s.c.Set(key, value, cost)
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Clear(context.Context) error {
	s.c.Clear()
	return nil
}

func (s *Store) Close(context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Wait blocks until buffered Sets have been applied. Useful in tests and
// before reads that must observe a just-written entry.
func (s *Store) Wait() { s.c.Wait() }

// Metrics exposes Ristretto's metrics when enabled in Config.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
