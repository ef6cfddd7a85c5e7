package metrics_handler

import (
	"wishbot/internal/services/http_server/handlers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type metricsHandler struct {
	handler fasthttp.RequestHandler
}

// New returns nil when no token is configured, which keeps /metrics closed.
func New(token string) handlers.Handler {
	if token == "" {
		return nil
	}
	return &metricsHandler{handler: handlers.BearerTokenAuth(token, fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))}
}

func (h *metricsHandler) Handle(ctx *fasthttp.RequestCtx) {
	h.handler(ctx)
}
