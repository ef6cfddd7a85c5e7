package main

import (
	"fmt"
	"log/slog"
	"os"

	"wishbot/internal/app"
	_ "wishbot/internal/logger"
)

func main() {
	a, err := app.New()
	if err != nil {
		slog.Error(fmt.Sprintf("error starting app: %+v", err))
		os.Exit(1)
	}
	if err = a.Run(); err != nil {
		slog.Error(fmt.Sprintf("error running app: %+v", err))
		os.Exit(1)
	}
}
