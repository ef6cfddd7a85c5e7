package forwarder

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"wishbot/internal/entities"
	"wishbot/internal/metrics"
	"wishbot/internal/queue"
	"wishbot/internal/repository"

	tele "gopkg.in/telebot.v3"
)

type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Service forwards claimed discounts to the operators.
type Service struct {
	adminIds []int64
	bot      Sender
	q        *queue.Queue[entities.Lead]
	repo     repository.Repository
	l        *slog.Logger
}

func New(adminIds []int64, bot Sender, q *queue.Queue[entities.Lead], repo repository.Repository, l *slog.Logger) *Service {
	return &Service{
		adminIds: adminIds,
		bot:      bot,
		q:        q,
		repo:     repo,
		l:        l.With("name", "ForwarderService"),
	}
}

func (s *Service) Run(ctx context.Context) error {
	s.l.Info("forwarder is ready", "admins", len(s.adminIds))

	for {
		select {
		case <-ctx.Done():
			s.l.Info("stopping forwarder service")
			return nil
		case lead := <-s.q.AsChan():
			s.forward(lead)
		}
	}
}

func (s *Service) forward(lead entities.Lead) {
	l := s.l.With("userId", lead.UserId)
	user, err := s.repo.GetUser(context.Background(), lead.UserId)
	if errors.Is(err, repository.ErrNotFound) {
		l.Error("lead user not found")
		return
	}
	if err != nil {
		l.Error(fmt.Errorf("get user failed: %w", err).Error())
		return
	}

	text := render(user)
	for _, adminId := range s.adminIds {
		sentMessage, err := s.bot.Send(tele.ChatID(adminId), text, tele.ModeHTML, tele.NoPreview)
		if err != nil {
			l.Error(fmt.Errorf("error sending tg message: %w", err).Error(), "toTgChatId", adminId)
			continue
		}
		l.Info("sent lead to admin", "toTgChatId", adminId, "sentMessageId", sentMessage.ID)
		metrics.LeadsForwarded.Inc()
	}
}

func render(user *entities.User) string {
	name := user.DisplayName
	if name == "" {
		name = fmt.Sprint(user.Id)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <a href=\"tg://user?id=%d\">%s</a> claimed the discount", user.Id, html.EscapeString(name))
	if user.Handle != "" {
		fmt.Fprintf(&b, " (@%s)", html.EscapeString(user.Handle))
	}
	if user.SocialHandle != "" {
		fmt.Fprintf(&b, "\n📱 Instagram: %s", html.EscapeString(user.SocialHandle))
	}
	return b.String()
}
