// Package cache provides a process-local TTL cache with singleflight
// loading, used to keep repeated reference reads off the database.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pitwall/f1-stats/internal/platform/resilience"
)

type cachedValue struct {
	value    any
	deadline time.Time
}

type Store struct {
	mu     sync.RWMutex
	values map[string]cachedValue
	ttl    time.Duration
	flight resilience.SingleFlight
}

// NewStore builds a store whose entries expire ttl after they are set.
// A non-positive ttl keeps entries until they are deleted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		values: make(map[string]cachedValue),
		ttl:    ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	cached, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.expired(cached, time.Now()) {
		s.mu.Lock()
		delete(s.values, key)
		s.mu.Unlock()
		return nil, false
	}

	return cached.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	cached := cachedValue{value: value}
	if s.ttl > 0 {
		cached.deadline = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.values[key] = cached
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or runs loader to fill it.
// Concurrent loads for the same key collapse into one loader call, and
// a load error is never cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)

		return loaded, nil
	})

	return value, err
}

func (s *Store) expired(cached cachedValue, now time.Time) bool {
	return s.ttl > 0 && !cached.deadline.After(now)
}
