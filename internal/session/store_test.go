package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMemoryStore(t *testing.T) {
	t.Run("get put clear", func(t *testing.T) {
		s := NewMemoryStore[string](0)
		_, ok := s.Get(1)
		assert.False(t, ok)

		s.Put(1, "dice")
		v, ok := s.Get(1)
		assert.True(t, ok)
		assert.Equal(t, "dice", v)

		s.Clear(1)
		_, ok = s.Get(1)
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("ttl", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		s := NewMemoryStore[int](time.Hour)
		s.now = func() time.Time { return now }

		s.Put(1, 10)
		s.Put(2, 20)
		now = now.Add(50 * time.Minute)
		s.Put(2, 21) // touch

		now = now.Add(20 * time.Minute)
		_, ok := s.Get(1)
		assert.False(t, ok)
		v, ok := s.Get(2)
		assert.True(t, ok)
		assert.Equal(t, 21, v)

		assert.Equal(t, 1, s.Evict())
		assert.Equal(t, 1, s.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		now := time.Now()
		s := NewMemoryStore[int](0)
		s.now = func() time.Time { return now }
		s.Put(1, 1)
		now = now.Add(1000 * time.Hour)
		assert.Equal(t, 0, s.Evict())
		_, ok := s.Get(1)
		assert.True(t, ok)
	})
}

func TestMemoryStoreRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, ttl := range []time.Duration{0, time.Millisecond} {
		s := NewMemoryStore[int](ttl)
		s.Put(1, 1)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- s.Run(ctx, time.Millisecond) }()
		if ttl > 0 {
			assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
		}
		cancel()
		assert.NoError(t, <-done)
	}
}
