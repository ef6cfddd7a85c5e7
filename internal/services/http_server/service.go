package http_server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"wishbot/internal/services/http_server/handlers"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

type HttpServer struct {
	host string
	port int
	h    *handlers.Handlers
	l    *slog.Logger
}

func New(cfg *Config, h *handlers.Handlers, l *slog.Logger) *HttpServer {
	return &HttpServer{
		host: cfg.Host,
		port: cfg.Port,
		h:    h,
		l:    l.With("name", "HttpServer"),
	}
}

func (s *HttpServer) Run(ctx context.Context) error {
	r := router.New()
	if s.h.Metrics != nil {
		r.GET("/metrics", s.h.Metrics.Handle)
	}
	if s.h.Debug != nil {
		r.POST("/debug", s.h.Debug.Handle)
	}

	api := r.Group("/api")
	if s.h.TelegramWebhook != nil {
		api.POST("/telegram/webhook", s.h.TelegramWebhook.Handle)
	}
	if s.h.AdminReport != nil {
		api.GET("/admin/report", s.h.AdminReport.Handle)
	}
	if s.h.AdminFlow != nil {
		api.GET("/admin/flow", s.h.AdminFlow.Handle)
	}

	socketAddress := fmt.Sprintf("%s:%d", s.host, s.port)
	l, err := net.Listen("tcp", socketAddress)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		s.l.Info("stopping http server")
		_ = l.Close()
	}()

	s.l.Info("starting http server", "address", socketAddress)
	return fasthttp.Serve(l, r.Handler)
}
