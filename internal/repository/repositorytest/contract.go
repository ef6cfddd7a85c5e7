// Package repositorytest holds behaviour checks shared by every repository.Repository implementation.
package repositorytest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"wishbot/internal/entities"
	"wishbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Run checks repo against the persistence contract. newRepo must return an empty repository driven by clock.
func Run(t *testing.T, newRepo func(t *testing.T, clock *Clock) repository.Repository) {
	ctx := context.Background()

	t.Run("get missing user", func(t *testing.T) {
		repo := newRepo(t, NewClock())
		user, err := repo.GetUser(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("upsert creates then updates given fields", func(t *testing.T) {
		clock := NewClock()
		repo := newRepo(t, clock)
		created := clock.Now()

		require.NoError(t, repo.UpsertUser(ctx, 42, entities.UserFields{
			DisplayName: entities.Ptr("Ana"),
			Handle:      entities.Ptr("ana_tg"),
		}))
		user, err := repo.GetUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.DisplayName)
		assert.True(t, user.CreatedAt.Equal(created))
		assert.True(t, user.UpdatedAt.Equal(created))

		clock.Advance(time.Minute)
		require.NoError(t, repo.UpsertUser(ctx, 42, entities.UserFields{Wish: entities.Ptr("I want X"), DiceResult: entities.Ptr(1)}))
		require.NoError(t, repo.UpsertUser(ctx, 42, entities.UserFields{Wish: entities.Ptr("I want Y")}))

		user, err = repo.GetUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.DisplayName)
		assert.Equal(t, "ana_tg", user.Handle)
		assert.Equal(t, "I want Y", user.Wish)
		assert.Equal(t, 1, user.DiceResult)
		assert.True(t, user.CreatedAt.Equal(created))
		assert.True(t, user.UpdatedAt.Equal(created.Add(time.Minute)))
	})

	t.Run("upsert with no fields only touches updated_at", func(t *testing.T) {
		clock := NewClock()
		repo := newRepo(t, clock)
		require.NoError(t, repo.UpsertUser(ctx, 7, entities.UserFields{DiscountClaimed: entities.Ptr(true)}))
		clock.Advance(time.Hour)
		require.NoError(t, repo.UpsertUser(ctx, 7, entities.UserFields{}))

		user, err := repo.GetUser(ctx, 7)
		require.NoError(t, err)
		assert.True(t, user.DiscountClaimed)
		assert.True(t, user.UpdatedAt.Equal(clock.Now()))
	})

	t.Run("list users newest first", func(t *testing.T) {
		clock := NewClock()
		repo := newRepo(t, clock)
		for _, id := range []int64{3, 1, 2} {
			require.NoError(t, repo.UpsertUser(ctx, id, entities.UserFields{DisplayName: entities.Ptr(fmt.Sprint(id))}))
			clock.Advance(time.Second)
		}
		// updating an old user must not move it
		require.NoError(t, repo.UpsertUser(ctx, 3, entities.UserFields{Wish: entities.Ptr("w")}))

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.Id)
		}
		assert.Equal(t, []int64{2, 1, 3}, ids)
	})

	t.Run("answers are append only", func(t *testing.T) {
		repo := newRepo(t, NewClock())
		for _, id := range []int64{5, 6} {
			require.NoError(t, repo.UpsertUser(ctx, id, entities.UserFields{}))
		}
		require.NoError(t, repo.AppendAnswer(ctx, 5, 4, "first"))
		require.NoError(t, repo.AppendAnswer(ctx, 5, 4, "first"))
		require.NoError(t, repo.AppendAnswer(ctx, 6, 1, "other user"))

		answers, err := repo.ListAnswers(ctx, 5)
		require.NoError(t, err)
		require.Len(t, answers, 2)
		assert.Equal(t, 4, answers[0].Ordinal)
		assert.Equal(t, "first", answers[1].Text)
	})

	t.Run("funnel counts group by step", func(t *testing.T) {
		repo := newRepo(t, NewClock())
		counts, err := repo.FunnelCounts(ctx)
		require.NoError(t, err)
		assert.Empty(t, counts)

		for id := int64(1); id <= 5; id++ {
			require.NoError(t, repo.UpsertUser(ctx, id, entities.UserFields{}))
		}
		var wg sync.WaitGroup
		for id := int64(1); id <= 5; id++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				assert.NoError(t, repo.AppendFunnelEvent(ctx, id, "start"))
				if id%2 == 0 {
					assert.NoError(t, repo.AppendFunnelEvent(ctx, id, "dice_rolled_1"))
				}
			}(id)
		}
		wg.Wait()
		require.NoError(t, repo.AppendFunnelEvent(ctx, 1, "start"))

		counts, err = repo.FunnelCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"start": 6, "dice_rolled_1": 2}, counts)
	})
}
