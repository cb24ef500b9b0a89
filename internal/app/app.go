package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/mazeboard/internal/config"
	"github.com/vancomm/mazeboard/internal/database"
	"github.com/vancomm/mazeboard/internal/handlers"
	"github.com/vancomm/mazeboard/internal/repository"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger     *slog.Logger
	db         *pgxpool.Pool
	repo       handlers.Repo
	jwt        *config.JWT
	ws         *config.WebSocket
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		migrations: migrations,
	}

	return app
}

func (a *App) connect(ctx context.Context) error {
	if config.InMemory() {
		a.logger.Warn("keeping board sessions in memory")
		a.repo = repository.NewMemory()
		return nil
	}

	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.db = db
	a.repo = repository.New(db)

	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}
	a.jwt = jwt

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	board := handlers.NewBoardHandler(a.logger, a.repo, a.jwt, a.ws)

	addr := config.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(a.logger, board, a.jwt, config.BasePath()),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.Info("server listening", slog.String("addr", addr), slog.String("basePath", config.BasePath()))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
