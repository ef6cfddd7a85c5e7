package in_memory_repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"wishbot/internal/entities"
	"wishbot/internal/repository"
)

type inMemoryRepo struct {
	mu      sync.Mutex
	now     func() time.Time
	users   map[int64]*entities.User
	answers []*entities.Answer
	events  []*entities.FunnelEvent
}

func New() repository.Repository {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) repository.Repository {
	return &inMemoryRepo{now: now, users: map[int64]*entities.User{}}
}

func (r *inMemoryRepo) UpsertUser(_ context.Context, id int64, fields entities.UserFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	user, ok := r.users[id]
	if !ok {
		user = &entities.User{Id: id, CreatedAt: now}
		r.users[id] = user
	}
	fields.Apply(user)
	user.UpdatedAt = now
	return nil
}

func (r *inMemoryRepo) GetUser(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *inMemoryRepo) ListUsers(_ context.Context) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Id > users[j].Id
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *inMemoryRepo) AppendAnswer(_ context.Context, userId int64, ordinal int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.answers = append(r.answers, &entities.Answer{
		Id:        int64(len(r.answers) + 1),
		UserId:    userId,
		Ordinal:   ordinal,
		Text:      text,
		CreatedAt: r.now(),
	})
	return nil
}

func (r *inMemoryRepo) ListAnswers(_ context.Context, userId int64) ([]*entities.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var answers []*entities.Answer
	for _, answer := range r.answers {
		if answer.UserId == userId {
			clone := *answer
			answers = append(answers, &clone)
		}
	}
	return answers, nil
}

func (r *inMemoryRepo) AppendFunnelEvent(_ context.Context, userId int64, step string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, &entities.FunnelEvent{
		Id:        int64(len(r.events) + 1),
		UserId:    userId,
		Step:      step,
		CreatedAt: r.now(),
	})
	return nil
}

func (r *inMemoryRepo) FunnelCounts(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int64{}
	for _, event := range r.events {
		counts[event.Step]++
	}
	return counts, nil
}
