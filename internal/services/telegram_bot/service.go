package telegram_bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wishbot/internal/game"
	"wishbot/internal/metrics"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
)

const (
	defaultPollTimeout = 10 * time.Second
	updateTimeout      = time.Minute
)

var adminCommands = []string{"admin", "users", "stats", "user"}

type GameHandler interface {
	Handle(ctx context.Context, ev game.Event) error
}

type AdminCommands interface {
	HandleCommand(ctx context.Context, requester int64, command, args string) string
}

type Service struct {
	cfg  *Config
	bot  *tele.Bot
	game GameHandler
	l    *slog.Logger
}

func New(cfg *Config, l *slog.Logger) (*Service, error) {
	return newService(cfg, nil, false, l)
}

func newService(cfg *Config, client *http.Client, offline bool, l *slog.Logger) (*Service, error) {
	timeout := cfg.PollTimeout
	if timeout == 0 {
		timeout = defaultPollTimeout
	}
	bot, err := tele.NewBot(tele.Settings{
		URL:         cfg.URL,
		Token:       cfg.Token,
		Client:      client,
		Poller:      &tele.LongPoller{Timeout: timeout},
		Offline:     offline,
		Synchronous: offline,
	})
	if err != nil {
		return nil, fmt.Errorf("telebot error: %w", err)
	}
	return &Service{cfg: cfg, bot: bot, l: l.With("name", "TelegramBotService")}, nil
}

func (s *Service) Bot() *tele.Bot {
	return s.bot
}

func (s *Service) Messenger() *Messenger {
	return NewMessenger(s.bot)
}

func (s *Service) Roller() *Roller {
	return NewRoller(s.bot)
}

// Bind routes updates to the game and the admin commands.
func (s *Service) Bind(g GameHandler, admin AdminCommands) {
	s.game = g
	s.bot.Handle("/start", func(c tele.Context) error {
		return s.dispatch(c, "command", game.Event{Kind: game.EventStart})
	})
	for _, command := range adminCommands {
		command := command
		s.bot.Handle("/"+command, func(c tele.Context) error {
			metrics.UpdatesReceived.WithLabelValues("command").Inc()
			ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
			defer cancel()
			return c.Send(admin.HandleCommand(ctx, c.Sender().ID, command, c.Message().Payload))
		})
	}
	s.bot.Handle(tele.OnText, func(c tele.Context) error {
		return s.dispatch(c, "text", game.Event{Kind: game.EventText, Text: c.Text()})
	})
	s.bot.Handle(tele.OnCallback, s.onCallback)
}

func (s *Service) onCallback(c tele.Context) error {
	data := c.Callback().Data
	ev, ok := game.ParseCallback(data)
	if !ok {
		s.l.Warn("unknown callback data", "data", data, "userId", c.Sender().ID)
		return c.Respond()
	}
	if err := s.dispatch(c, "callback", ev); err != nil {
		return err
	}
	if ev.Kind == game.EventCardSelect {
		return c.Respond(&tele.CallbackResponse{Text: game.CardSelectedResponse})
	}
	return c.Respond()
}

func (s *Service) dispatch(c tele.Context, updateType string, ev game.Event) error {
	metrics.UpdatesReceived.WithLabelValues(updateType).Inc()
	ev.UserId = c.Sender().ID
	ev.Username = c.Sender().Username
	if chat := c.Chat(); chat != nil {
		ev.ChatId = chat.ID
	}

	l := s.l.With("traceId", uuid.NewString(), "userId", ev.UserId, "event", ev.Kind.String())
	l.Debug("received telegram update", "updateId", c.Update().ID)

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()
	if err := s.game.Handle(ctx, ev); err != nil {
		l.Error("error handling update", "err", err.Error())
	}
	return nil
}

// ProcessUpdate handles an update delivered through the webhook.
func (s *Service) ProcessUpdate(update tele.Update) {
	s.bot.ProcessUpdate(update)
}

// SecretToken is the value Telegram puts in X-Telegram-Bot-Api-Secret-Token.
func (s *Service) SecretToken() string {
	return s.cfg.WebhookSecret
}

func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Mode == ModeWebhook {
		return s.runWebhook(ctx)
	}

	if err := s.bot.RemoveWebhook(); err != nil {
		s.l.Warn("error removing webhook", "err", err.Error())
	}
	go func() {
		<-ctx.Done()
		s.l.Info("stopping telegram bot")
		s.bot.Stop()
	}()

	s.l.Info("telegram bot is polling", "username", s.bot.Me.Username)
	s.bot.Start()
	return nil
}

func (s *Service) runWebhook(ctx context.Context) error {
	err := s.bot.SetWebhook(&tele.Webhook{
		SecretToken: s.cfg.WebhookSecret,
		Endpoint:    &tele.WebhookEndpoint{PublicURL: s.cfg.PublicURL},
	})
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	s.l.Info("telegram bot is waiting for webhook updates", "username", s.bot.Me.Username, "url", s.cfg.PublicURL)
	<-ctx.Done()
	s.l.Info("stopping telegram bot")
	return nil
}
