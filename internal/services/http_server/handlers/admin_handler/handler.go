package admin_handler

import (
	"context"
	"fmt"
	"log/slog"

	"wishbot/internal/admin"
	"wishbot/internal/game"
	"wishbot/internal/services/http_server/handlers"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

type Reporter interface {
	Report(ctx context.Context) (*admin.Report, error)
}

type reportHandler struct {
	handler fasthttp.RequestHandler
	r       Reporter
	l       *slog.Logger
}

// NewReport serves the operator report as JSON. It returns nil when no token is configured.
func NewReport(r Reporter, token string, l *slog.Logger) handlers.Handler {
	if token == "" {
		return nil
	}
	h := &reportHandler{r: r, l: l.With("name", "AdminReportHandler")}
	h.handler = handlers.BearerTokenAuth(token, h.report)
	return h
}

func (h *reportHandler) Handle(ctx *fasthttp.RequestCtx) {
	h.handler(ctx)
}

func (h *reportHandler) report(ctx *fasthttp.RequestCtx) {
	report, err := h.r.Report(ctx)
	if err != nil {
		h.l.Error(fmt.Sprintf("error building report: %+v", err))
		ctx.Error("could not build the report", fasthttp.StatusInternalServerError)
		return
	}
	bytes, err := jsoniter.Marshal(report)
	if err != nil {
		h.l.Error(fmt.Sprintf("error encoding report: %+v", err))
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Response.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.SetBody(bytes)
}

type flowHandler struct {
	handler fasthttp.RequestHandler
}

// NewFlow serves the dialogue graph in graphviz format.
func NewFlow(token string) handlers.Handler {
	if token == "" {
		return nil
	}
	diagram := []byte(game.Diagram())
	return &flowHandler{handler: handlers.BearerTokenAuth(token, func(ctx *fasthttp.RequestCtx) {
		ctx.Response.SetStatusCode(fasthttp.StatusOK)
		ctx.Response.Header.SetContentType("text/vnd.graphviz")
		ctx.Response.SetBody(diagram)
	})}
}

func (h *flowHandler) Handle(ctx *fasthttp.RequestCtx) {
	h.handler(ctx)
}
