package logger

import (
	"log/slog"
	"os"
	"strings"
)

func init() {
	slog.SetDefault(New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")))
}

// New builds the process logger: JSON for prod, text for dev. level overrides the env default.
func New(env, level string) *slog.Logger {
	var logger *slog.Logger
	switch env {
	case "prod":
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelInfo)}))
	case "dev":
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}))
	default:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}))
	}
	return logger.With("app", "wishbot")
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fallback
	}
	return l
}
