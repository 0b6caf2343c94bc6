// Package cache holds the process-local TTL store behind read-through repositories and
// login sessions.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var errNilLoader = errors.New("cache: nil loader")

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) liveAt(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Store maps string keys to values with an optional default TTL. Expired entries are
// dropped lazily when read.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	loads   singleflight.Group
}

type Option func(*Store)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a store whose Set uses ttl. Zero means entries never expire.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{ttl: ttl, now: time.Now, entries: map[string]entry{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := s.now()
	if e.liveAt(now) {
		return e.value, true
	}

	// Re-read under the write lock so a concurrent Set is not evicted.
	s.mu.Lock()
	if current, ok := s.entries[key]; ok && !current.liveAt(now) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil, false
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix. An empty prefix is a no-op.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// GetOrLoad serves key from the store or calls load, sharing one call among concurrent
// misses on the same key. Errors are returned and never stored.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if load == nil {
		return nil, errNilLoader
	}
	if key == "" {
		return load(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.loads.Do(key, func() (any, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, v)
		return v, nil
	})
	return v, err
}
