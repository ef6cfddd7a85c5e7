// Package session keeps transient per-user dialogue state.
package session

import (
	"context"
	"sync"
	"time"
)

type Store[T any] interface {
	Get(id int64) (T, bool)
	Put(id int64, v T)
	Clear(id int64)
}

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// MemoryStore is a Store that forgets entries idle for longer than ttl. A ttl of zero or less keeps entries forever.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]*entry[T]
}

func NewMemoryStore[T any](ttl time.Duration) *MemoryStore[T] {
	return &MemoryStore[T]{ttl: ttl, now: time.Now, entries: map[int64]*entry[T]{}}
}

func (s *MemoryStore[T]) Get(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e, s.now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (s *MemoryStore[T]) Put(id int64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry[T]{value: v, lastSeen: s.now()}
}

func (s *MemoryStore[T]) Clear(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *MemoryStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Evict drops expired entries and returns how many were removed.
func (s *MemoryStore[T]) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run evicts expired entries every interval until ctx is done.
func (s *MemoryStore[T]) Run(ctx context.Context, interval time.Duration) error {
	if s.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Evict()
		}
	}
}

func (s *MemoryStore[T]) expired(e *entry[T], now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}
