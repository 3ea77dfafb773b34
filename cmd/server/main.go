package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/boardkit/board/internal/config"
	"github.com/boardkit/board/internal/handler"
	"github.com/boardkit/board/internal/middleware"
	"github.com/boardkit/board/internal/repository"
	"github.com/boardkit/board/internal/repository/migrations"
	"github.com/boardkit/board/internal/server"
	"github.com/boardkit/board/internal/view"
	"github.com/boardkit/board/pkg/cookie"
	"github.com/boardkit/board/pkg/db"
	"github.com/boardkit/board/pkg/logger"
	"github.com/boardkit/board/pkg/redis"
	"github.com/boardkit/board/pkg/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Sentry, middleware.RequestIDExtractor())

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}

	if err := db.Migrate(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log); err != nil {
		pool.Close()
		return err
	}

	redisClient, err := redis.Open(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return err
	}

	cookies := cookie.New(
		cookie.WithSecret(cfg.SessionSecret),
		cookie.WithSecure(cfg.CookieSecure),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
	sessions := session.NewManager(
		session.NewRedis(redisClient),
		cookies,
		session.WithCookieName(cfg.SessionCookieName),
		session.WithTTL(cfg.SessionTTL),
	)

	views, err := view.New()
	if err != nil {
		pool.Close()
		return err
	}

	repo := repository.NewPostgres(pool)

	srv := server.New(
		server.WithAddress(cfg.HTTPAddr),
		server.WithLogger(log),
		server.WithMiddleware(
			middleware.RequestID,
			middleware.Recover(log),
			middleware.Logging(log),
			middleware.WithIdentity(sessions),
		),
		server.WithHandlers(
			handler.NewAuth(repo, sessions, cookies, views, log),
			handler.NewPosts(repo, cookies, views, log),
		),
		server.WithShutdownHook(db.Shutdown(pool)),
		server.WithShutdownHook(redis.Shutdown(redisClient)),
	)

	return srv.Run(ctx)
}
