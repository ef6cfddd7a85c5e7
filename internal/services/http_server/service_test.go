package http_server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wishbot/internal/admin"
	"wishbot/internal/assets"
	"wishbot/internal/entities"
	"wishbot/internal/game"
	"wishbot/internal/repository"
	"wishbot/internal/repository/in_memory_repo"
	"wishbot/internal/services/http_server/handlers"
	"wishbot/internal/services/http_server/handlers/admin_handler"
	"wishbot/internal/services/http_server/handlers/debug_handler"
	"wishbot/internal/services/http_server/handlers/metrics_handler"
	"wishbot/internal/services/http_server/handlers/telegram_bot_handler"
	"wishbot/internal/session"

	"github.com/agiledragon/gomonkey/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	tele "gopkg.in/telebot.v3"
)

type handlerStub struct{}

func (s handlerStub) Handle(_ *fasthttp.RequestCtx) {}

type updatesStub struct {
	mu      sync.Mutex
	updates []tele.Update
}

func (s *updatesStub) ProcessUpdate(update tele.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
}

// messengerStub accepts every message.
type messengerStub struct {
	mu sync.Mutex
	id int
}

func (m *messengerStub) next() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id++
	return m.id
}

func (m *messengerStub) SendText(context.Context, int64, string, game.Keyboard) (int, error) {
	return m.next(), nil
}

func (m *messengerStub) SendPhoto(context.Context, int64, string, game.Keyboard) (int, error) {
	return m.next(), nil
}

func (m *messengerStub) EditText(context.Context, int64, int, string, game.Keyboard) error {
	return nil
}

func (m *messengerStub) EditPhoto(context.Context, int64, int, string, game.Keyboard) error {
	return nil
}

func (m *messengerStub) Delete(context.Context, int64, int) error {
	return nil
}

type schedulerStub struct{}

func (schedulerStub) After(_ time.Duration, _ game.Event) {}

func startServer(t *testing.T, h *handlers.Handlers) *http.Client {
	t.Helper()
	listener := fasthttputil.NewInmemoryListener()
	p := gomonkey.ApplyFunc(net.Listen, func(network string, address string) (net.Listener, error) { return listener, nil })
	t.Cleanup(p.Reset)

	s := New(&Config{Host: "localhost", Port: 1337}, h, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = s.Run(ctx) }()

	return &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return listener.Dial()
		},
	}}
}

func do(t *testing.T, client *http.Client, method, url, token string, body []byte) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(respBody)
}

func TestServiceStartStop(t *testing.T) {
	h := &handlers.Handlers{Metrics: &handlerStub{}, TelegramWebhook: &handlerStub{}}
	s := New(&Config{Host: "localhost", Port: 1337}, h, slog.Default())

	var ok bool
	p := gomonkey.ApplyFunc(net.Listen, func(network string, address string) (net.Listener, error) {
		if ok {
			return fasthttputil.NewInmemoryListener(), nil
		}
		return nil, fmt.Errorf("error")
	})
	defer p.Reset()

	ok = false
	err := s.Run(context.Background())
	assert.EqualError(t, err, "error")

	ok = true
	errCh := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		errCh <- s.Run(ctx)
	}()
	cancel()
	assert.NoError(t, <-errCh)
}

func TestTelegramWebhook(t *testing.T) {
	tests := []struct {
		name         string
		secret       string
		header       string
		body         string
		statusCode   int
		bodyContains string
		updates      int
	}{
		{name: "json unmarshal error", body: `{"update_id":1,}`, statusCode: 400, bodyContains: "json unmarshal error"},
		{name: "missing secret", secret: "s3cret", body: `{"update_id":1}`, statusCode: 401, bodyContains: "unauthorized"},
		{name: "wrong secret", secret: "s3cret", header: "other", body: `{"update_id":1}`, statusCode: 401},
		{name: "ok", secret: "s3cret", header: "s3cret", body: `{"update_id":7,"message":{"message_id":1,"text":"hi","chat":{"id":5}}}`, statusCode: 200, updates: 1},
		{name: "ok without secret", body: `{"update_id":7}`, statusCode: 200, updates: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &updatesStub{}
			client := startServer(t, &handlers.Handlers{TelegramWebhook: telegram_bot_handler.New(bot, tt.secret, slog.Default())})

			req, err := http.NewRequest("POST", "http://localhost/api/telegram/webhook", bytes.NewReader([]byte(tt.body)))
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("X-Telegram-Bot-Api-Secret-Token", tt.header)
			}
			resp, err := client.Do(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tt.statusCode, resp.StatusCode)
			assert.Contains(t, string(body), tt.bodyContains)
			assert.Len(t, bot.updates, tt.updates)
			if tt.updates > 0 {
				assert.Equal(t, 7, bot.updates[0].ID)
			}
		})
	}
}

func seededRepo(t *testing.T) repository.Repository {
	t.Helper()
	ctx := context.Background()
	repo := in_memory_repo.New()
	require.NoError(t, repo.UpsertUser(ctx, 1, entities.UserFields{DisplayName: entities.Ptr("Ana"), DiscountClaimed: entities.Ptr(true)}))
	require.NoError(t, repo.UpsertUser(ctx, 2, entities.UserFields{DisplayName: entities.Ptr("Bob")}))
	require.NoError(t, repo.AppendFunnelEvent(ctx, 1, "start"))
	require.NoError(t, repo.AppendFunnelEvent(ctx, 2, "start"))
	return repo
}

func TestAdminHandlers(t *testing.T) {
	repo := seededRepo(t)
	svc := admin.New(&admin.Config{ApiToken: "admin-token"}, repo, slog.Default())
	client := startServer(t, &handlers.Handlers{
		AdminReport: admin_handler.NewReport(svc, "admin-token", slog.Default()),
		AdminFlow:   admin_handler.NewFlow("admin-token"),
		Metrics:     metrics_handler.New("metrics-token"),
	})

	t.Run("report unauthorized", func(t *testing.T) {
		code, _ := do(t, client, "GET", "http://localhost/api/admin/report", "", nil)
		assert.Equal(t, 401, code)
	})

	t.Run("report", func(t *testing.T) {
		code, body := do(t, client, "GET", "http://localhost/api/admin/report", "admin-token", nil)
		require.Equal(t, 200, code)

		report := &admin.Report{}
		require.NoError(t, jsoniter.Unmarshal([]byte(body), report))
		assert.Equal(t, 2, report.Summary.TotalUsers)
		assert.Equal(t, 1, report.Stats.DiscountsClaimed)
		assert.Equal(t, 50.0, report.Stats.DiscountConversion)
		assert.Equal(t, []admin.StepCount{{Step: "start", Count: 2, Percent: 100}}, report.Stats.Steps)
		assert.Len(t, report.Users.Users, 2)
	})

	t.Run("flow", func(t *testing.T) {
		code, body := do(t, client, "GET", "http://localhost/api/admin/flow", "admin-token", nil)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, "digraph fsm")
	})

	t.Run("metrics", func(t *testing.T) {
		code, _ := do(t, client, "GET", "http://localhost/metrics", "", nil)
		assert.Equal(t, 401, code)
		code, body := do(t, client, "GET", "http://localhost/metrics", "metrics-token", nil)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("disabled without token", func(t *testing.T) {
		assert.Nil(t, admin_handler.NewReport(svc, "", slog.Default()))
		assert.Nil(t, admin_handler.NewFlow(""))
		assert.Nil(t, metrics_handler.New(""))
	})
}

func TestDebugHandler(t *testing.T) {
	setupDebugHandlerTest := func(t *testing.T) (repository.Repository, *http.Client) {
		t.Helper()
		dir := t.TempDir()
		cards := filepath.Join(dir, "cards")
		require.NoError(t, os.MkdirAll(cards, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(cards, "a.jpg"), []byte("img"), 0o644))

		repo := in_memory_repo.New()
		engine := game.New(&game.Config{InstagramAccount: "universe"}, game.Deps{
			Repo:      repo,
			Decks:     assets.New(&assets.Config{CardsDir: cards, GiftCardsDir: filepath.Join(dir, "gift_cards")}),
			Sessions:  session.NewMemoryStore[*game.Session](0),
			Messenger: &messengerStub{},
			Scheduler: schedulerStub{},
		}, slog.Default())

		client := startServer(t, &handlers.Handlers{Debug: debug_handler.New(engine, repo)})
		return repo, client
	}
	doRequest := func(client *http.Client, body string) (int, string) {
		return do(t, client, "POST", "http://localhost:8080/debug", "", []byte(body))
	}

	t.Run("json unmarshal error", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"event",}`)
		assert.Equal(t, 400, code)
		assert.Contains(t, body, "json unmarshal error")
	})
	t.Run("unknown action", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"test action"}`)
		assert.Equal(t, 200, code)
		assert.Equal(t, "", body)
	})
	t.Run("event: no request data", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"event"}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "request data is nil", body)
	})
	t.Run("event: insufficient data", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"event","data":{"user_id":5}}`)
		assert.Equal(t, 400, code)
		assert.Contains(t, body, "validation error")
	})
	t.Run("event: unknown callback", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"event","data":{"user_id":5,"callback":"jump"}}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "unknown callback: jump", body)
	})
	t.Run("event: ok", func(t *testing.T) {
		repo, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"event","data":{"user_id":5,"text":"/start"}}`)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"state":"idle"`)

		code, body = doRequest(client, `{"action":"event","data":{"user_id":5,"callback":"start_game"}}`)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"state":"name"`)

		code, body = doRequest(client, `{"action":"event","data":{"user_id":5,"text":"Ana"}}`)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"state":"request"`)

		user, err := repo.GetUser(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.DisplayName)

		code, body = doRequest(client, `{"action":"get_user","data":{"id":5}}`)
		assert.Equal(t, 200, code)
		assert.Contains(t, body, `"display_name":"Ana"`)
	})
	t.Run("get user: not found", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"get_user","data":{"id":5}}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "user not found", body)
	})
	t.Run("get session: not found", func(t *testing.T) {
		_, client := setupDebugHandlerTest(t)
		code, body := doRequest(client, `{"action":"get_session","data":{"id":5}}`)
		assert.Equal(t, 400, code)
		assert.Equal(t, "session not found", body)
	})
}
