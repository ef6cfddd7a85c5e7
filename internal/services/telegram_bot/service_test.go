package telegram_bot

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"

	"wishbot/internal/game"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	tele "gopkg.in/telebot.v3"
)

type apiCall struct {
	Method string
	Params map[string]any
}

// fakeAPI answers every Bot API method with a plain message.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (a *fakeAPI) handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	params := map[string]any{}
	_ = jsoniter.Unmarshal(ctx.Request.Body(), &params)

	a.mu.Lock()
	a.calls = append(a.calls, apiCall{Method: path[strings.LastIndex(path, "/")+1:], Params: params})
	a.mu.Unlock()

	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetBody([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
}

func (a *fakeAPI) byMethod(method string) []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	var res []apiCall
	for _, c := range a.calls {
		if c.Method == method {
			res = append(res, c)
		}
	}
	return res
}

type gameStub struct {
	events []game.Event
}

func (g *gameStub) Handle(_ context.Context, ev game.Event) error {
	g.events = append(g.events, ev)
	return nil
}

type adminStub struct {
	requester int64
	command   string
	args      string
}

func (a *adminStub) HandleCommand(_ context.Context, requester int64, command, args string) string {
	a.requester, a.command, a.args = requester, command, args
	return "report for " + command
}

func setupService(t *testing.T) (*Service, *fakeAPI, *gameStub, *adminStub) {
	t.Helper()
	api := &fakeAPI{}
	listener := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(listener, api.handle) }()
	t.Cleanup(func() { _ = listener.Close() })

	client := &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return listener.Dial()
		},
	}}
	s, err := newService(&Config{Token: "test-token", URL: "http://telegram.test"}, client, true, slog.Default())
	require.NoError(t, err)

	g, admin := &gameStub{}, &adminStub{}
	s.Bind(g, admin)
	return s, api, g, admin
}

var (
	testSender = &tele.User{ID: 42, Username: "ana_tg"}
	testChat   = &tele.Chat{ID: 4200, Type: tele.ChatPrivate}
)

func textUpdate(text string) tele.Update {
	return tele.Update{ID: 1, Message: &tele.Message{ID: 10, Text: text, Sender: testSender, Chat: testChat}}
}

func callbackUpdate(data string) tele.Update {
	return tele.Update{ID: 2, Callback: &tele.Callback{
		ID:      "cb",
		Sender:  testSender,
		Message: &tele.Message{ID: 11, Chat: testChat},
		Data:    data,
	}}
}

func TestServiceRouting(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		s, _, g, _ := setupService(t)
		s.ProcessUpdate(textUpdate("/start"))
		require.Len(t, g.events, 1)
		assert.Equal(t, game.Event{Kind: game.EventStart, UserId: 42, ChatId: 4200, Username: "ana_tg"}, g.events[0])
	})

	t.Run("text", func(t *testing.T) {
		s, _, g, _ := setupService(t)
		s.ProcessUpdate(textUpdate("Ana Petrova"))
		require.Len(t, g.events, 1)
		assert.Equal(t, game.EventText, g.events[0].Kind)
		assert.Equal(t, "Ana Petrova", g.events[0].Text)
	})

	t.Run("callback", func(t *testing.T) {
		s, api, g, _ := setupService(t)
		s.ProcessUpdate(callbackUpdate("gift_2_next_3"))
		require.Len(t, g.events, 1)
		assert.Equal(t, game.Event{Kind: game.EventGiftNext, Slot: 2, Cursor: 3, UserId: 42, ChatId: 4200, Username: "ana_tg"}, g.events[0])
		assert.Len(t, api.byMethod("answerCallbackQuery"), 1)
	})

	t.Run("card select popup", func(t *testing.T) {
		s, api, _, _ := setupService(t)
		s.ProcessUpdate(callbackUpdate("card_select_0"))
		answers := api.byMethod("answerCallbackQuery")
		require.Len(t, answers, 1)
		assert.Equal(t, game.CardSelectedResponse, answers[0].Params["text"])
	})

	t.Run("unknown callback", func(t *testing.T) {
		s, api, g, _ := setupService(t)
		s.ProcessUpdate(callbackUpdate("something_else"))
		assert.Empty(t, g.events)
		assert.Len(t, api.byMethod("answerCallbackQuery"), 1)
	})

	t.Run("admin command", func(t *testing.T) {
		s, api, g, admin := setupService(t)
		s.ProcessUpdate(textUpdate("/user 7"))
		assert.Empty(t, g.events)
		assert.Equal(t, int64(42), admin.requester)
		assert.Equal(t, "user", admin.command)
		assert.Equal(t, "7", admin.args)

		sent := api.byMethod("sendMessage")
		require.Len(t, sent, 1)
		assert.Equal(t, "report for user", sent[0].Params["text"])
	})
}
