package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"wishbot/internal/repository"
)

var ErrUnauthorized = errors.New("not an admin")

type Config struct {
	Ids      []int64 `yaml:"ids"`
	ApiToken string  `yaml:"api_token"`
}

// Report is everything an operator can see at once.
type Report struct {
	Summary Summary   `json:"summary"`
	Stats   Stats     `json:"stats"`
	Users   UsersPage `json:"users"`
}

type Service struct {
	cfg  *Config
	repo repository.Repository
	l    *slog.Logger
}

func New(cfg *Config, repo repository.Repository, l *slog.Logger) *Service {
	return &Service{cfg: cfg, repo: repo, l: l.With("name", "AdminService")}
}

func (s *Service) IsAdmin(userId int64) bool {
	return slices.Contains(s.cfg.Ids, userId)
}

func (s *Service) Summary(ctx context.Context, requester int64) (*Summary, error) {
	if !s.IsAdmin(requester) {
		return nil, ErrUnauthorized
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	counts, err := s.repo.FunnelCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("funnel counts: %w", err)
	}
	summary := BuildSummary(users, counts)
	return &summary, nil
}

func (s *Service) Users(ctx context.Context, requester int64) (*UsersPage, error) {
	if !s.IsAdmin(requester) {
		return nil, ErrUnauthorized
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	page := PageUsers(users, PageSize)
	return &page, nil
}

func (s *Service) Stats(ctx context.Context, requester int64) (*Stats, error) {
	if !s.IsAdmin(requester) {
		return nil, ErrUnauthorized
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	counts, err := s.repo.FunnelCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("funnel counts: %w", err)
	}
	stats := BuildStats(users, counts)
	return &stats, nil
}

// User returns repository.ErrNotFound for an unknown id.
func (s *Service) User(ctx context.Context, requester, userId int64) (*UserDetail, error) {
	if !s.IsAdmin(requester) {
		return nil, ErrUnauthorized
	}
	user, err := s.repo.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	answers, err := s.repo.ListAnswers(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return &UserDetail{User: user, Answers: answers}, nil
}

// Report builds the full report. Callers authenticate on their own.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	counts, err := s.repo.FunnelCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("funnel counts: %w", err)
	}
	return &Report{
		Summary: BuildSummary(users, counts),
		Stats:   BuildStats(users, counts),
		Users:   PageUsers(users, PageSize),
	}, nil
}

// HandleCommand answers an admin chat command. command has no leading slash, args is the rest of the message.
func (s *Service) HandleCommand(ctx context.Context, requester int64, command, args string) string {
	l := s.l.With("requester", requester, "command", command)

	args = strings.TrimSpace(args)
	text, err := s.render(ctx, requester, command, args)
	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrUnauthorized):
		l.Warn("admin command refused")
		return noAccessMsg
	case errors.Is(err, errUsage):
		return userUsageMsg
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Sprintf(userNotFoundMsg, args)
	default:
		l.Error("error building report", "err", err.Error())
		return reportFailedMsg
	}
}

var errUsage = errors.New("bad command arguments")

func (s *Service) render(ctx context.Context, requester int64, command, args string) (string, error) {
	switch command {
	case "admin":
		summary, err := s.Summary(ctx, requester)
		if err != nil {
			return "", err
		}
		return renderSummary(summary), nil
	case "users":
		page, err := s.Users(ctx, requester)
		if err != nil {
			return "", err
		}
		return renderUsers(page), nil
	case "stats":
		stats, err := s.Stats(ctx, requester)
		if err != nil {
			return "", err
		}
		return renderStats(stats), nil
	case "user":
		if !s.IsAdmin(requester) {
			return "", ErrUnauthorized
		}
		fields := strings.Fields(args)
		if len(fields) != 1 {
			return "", errUsage
		}
		userId, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return "", errUsage
		}
		detail, err := s.User(ctx, requester, userId)
		if err != nil {
			return "", err
		}
		return renderUser(detail), nil
	default:
		return "", fmt.Errorf("unknown admin command: %s", command)
	}
}
