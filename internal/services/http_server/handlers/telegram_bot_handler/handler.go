package telegram_bot_handler

import (
	"crypto/subtle"
	"fmt"
	"log/slog"

	"wishbot/internal/services/http_server/handlers"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	tele "gopkg.in/telebot.v3"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type UpdateProcessor interface {
	ProcessUpdate(update tele.Update)
}

type telegramBotHandler struct {
	bot    UpdateProcessor
	secret string
	l      *slog.Logger
}

func New(bot UpdateProcessor, secret string, l *slog.Logger) handlers.Handler {
	return &telegramBotHandler{bot: bot, secret: secret, l: l.With("name", "TelegramBotHandler")}
}

func (h *telegramBotHandler) Handle(ctx *fasthttp.RequestCtx) {
	if h.secret != "" {
		header := ctx.Request.Header.Peek(secretTokenHeader)
		if subtle.ConstantTimeCompare(header, []byte(h.secret)) != 1 {
			h.l.Warn("webhook request with a wrong secret token", "remoteAddr", ctx.RemoteAddr().String())
			ctx.Error("unauthorized", fasthttp.StatusUnauthorized)
			return
		}
	}

	update := tele.Update{}
	if err := jsoniter.Unmarshal(ctx.Request.Body(), &update); err != nil {
		h.l.Error(fmt.Sprintf("error handling request: %+v", err))
		ctx.Error(fmt.Sprintf("json unmarshal error: %s", err.Error()), fasthttp.StatusBadRequest)
		return
	}

	h.l.Debug("received Telegram update", "id", update.ID)
	ctx.Response.SetStatusCode(fasthttp.StatusOK)
	h.bot.ProcessUpdate(update)
}
