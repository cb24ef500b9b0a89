package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/vancomm/mazeboard/internal/app"
	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/config"
	"github.com/vancomm/mazeboard/internal/database"
)

func main() {
	envErr := config.LoadEnv()

	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	board.Log = logger.With(slog.String("component", "board"))

	if envErr != nil {
		logger.Warn("unable to load .env file", slog.Any("error", envErr))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(logger, database.Migrations)

	if err := a.Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
