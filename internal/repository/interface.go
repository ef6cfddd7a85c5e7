package repository

import (
	"context"
	"errors"

	"wishbot/internal/entities"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	// UpsertUser creates the user on first write and otherwise updates only the given fields.
	UpsertUser(ctx context.Context, id int64, fields entities.UserFields) error
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]*entities.User, error)

	AppendAnswer(ctx context.Context, userId int64, ordinal int, text string) error
	ListAnswers(ctx context.Context, userId int64) ([]*entities.Answer, error)

	AppendFunnelEvent(ctx context.Context, userId int64, step string) error
	FunnelCounts(ctx context.Context) (map[string]int64, error)
}
