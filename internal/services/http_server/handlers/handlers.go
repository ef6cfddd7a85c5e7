package handlers

import (
	"github.com/valyala/fasthttp"
)

type Handler interface {
	Handle(ctx *fasthttp.RequestCtx)
}

type Handlers struct {
	TelegramWebhook Handler
	Metrics         Handler
	AdminReport     Handler
	AdminFlow       Handler
	Debug           Handler
}
