package debug_handler

import (
	"errors"
	"fmt"

	"wishbot/internal/game"
	"wishbot/internal/repository"
	"wishbot/internal/services/http_server/handlers"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var errNoData = errors.New("request data is nil")

type debugHandler struct {
	engine *game.Engine
	repo   repository.Repository
}

func New(engine *game.Engine, repo repository.Repository) handlers.Handler {
	return &debugHandler{engine: engine, repo: repo}
}

func (h *debugHandler) Handle(ctx *fasthttp.RequestCtx) {
	var err error
	defer func() {
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		}
	}()

	request := &debugRequestDto{}
	if err = jsoniter.Unmarshal(ctx.Request.Body(), request); err != nil {
		err = fmt.Errorf("json unmarshal error: %w", err)
		return
	}
	switch data := request.Data.(type) {
	case *eventRequestData:
		if data == nil {
			err = errNoData
			return
		}
		err = h.handleEvent(ctx, data)
	case *userRequestData:
		if data == nil {
			err = errNoData
			return
		}
		if request.Action == actionGetSession {
			err = h.handleGetSession(ctx, data)
		} else {
			err = h.handleGetUser(ctx, data)
		}
	}
}

func (h *debugHandler) handleEvent(ctx *fasthttp.RequestCtx, data *eventRequestData) error {
	ev := game.Event{Kind: game.EventText, Text: data.Text}
	if data.Callback != "" {
		var ok bool
		if ev, ok = game.ParseCallback(data.Callback); !ok {
			return fmt.Errorf("unknown callback: %s", data.Callback)
		}
	}
	ev.UserId = data.UserId
	ev.ChatId = data.ChatId
	if ev.ChatId == 0 {
		ev.ChatId = data.UserId
	}
	if err := h.engine.Handle(ctx, ev); err != nil {
		return err
	}
	return h.handleGetSession(ctx, &userRequestData{Id: data.UserId})
}

func (h *debugHandler) handleGetUser(ctx *fasthttp.RequestCtx, data *userRequestData) error {
	user, err := h.repo.GetUser(ctx, data.Id)
	if err != nil {
		return err
	}
	return writeJSON(ctx, user)
}

func (h *debugHandler) handleGetSession(ctx *fasthttp.RequestCtx, data *userRequestData) error {
	s, ok := h.engine.Session(data.Id)
	if !ok {
		return errors.New("session not found")
	}
	return writeJSON(ctx, &sessionResponseDto{
		State:        s.State.String(),
		Deck:         s.Deck,
		Cursor:       s.Cursor,
		DiceAttempts: s.DiceAttempts,
		Card:         s.Card,
		GiftCard1:    s.GiftCard1,
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) error {
	bytes, err := jsoniter.Marshal(v)
	if err != nil {
		return err
	}
	ctx.Response.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetBody(bytes)
	return nil
}
