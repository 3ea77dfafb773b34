// Package server assembles the router and owns the HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/boardkit/board/internal/handler"
	"github.com/boardkit/board/pkg/logger"
)

// Server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// Server runs the HTTP application.
// It is immutable after creation; all configuration goes through New.
type Server struct {
	log             *slog.Logger
	router          chi.Router
	server          *http.Server
	middlewares     []func(http.Handler) http.Handler
	handlers        []handler.Handler
	shutdownHooks   []func(ctx context.Context) error
	shutdownTimeout time.Duration
	setupOnce       sync.Once
}

// Option configures the Server.
type Option func(*Server)

// WithAddress sets the listen address. Default ":8080".
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.server.Addr = addr
	}
}

// WithLogger sets the application logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMiddleware appends global middleware, applied in order.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw...)
	}
}

// WithHandlers appends route handlers.
func WithHandlers(hs ...handler.Handler) Option {
	return func(s *Server) {
		s.handlers = append(s.handlers, hs...)
	}
}

// WithShutdownHook appends a hook run during graceful shutdown, after
// the HTTP server has stopped accepting requests.
func WithShutdownHook(hook func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.shutdownHooks = append(s.shutdownHooks, hook)
	}
}

// WithShutdownTimeout sets the graceful shutdown deadline. Default 30s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// New creates a server with the given options.
func New(opts ...Option) *Server {
	router := chi.NewRouter()

	s := &Server{
		log:             logger.NewNope(),
		router:          router,
		shutdownTimeout: defaultShutdownTimeout,
		server: &http.Server{
			Addr:              ":8080",
			Handler:           router,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the assembled router.
// Exposed so tests can drive the full middleware and route stack
// without opening a socket.
func (s *Server) Handler() http.Handler {
	s.setupRoutes()
	return s.router
}

// setupRoutes applies middleware and registers handlers exactly once.
func (s *Server) setupRoutes() {
	s.setupOnce.Do(func() {
		for _, mw := range s.middlewares {
			s.router.Use(mw)
		}
		for _, h := range s.handlers {
			h.Routes(s.router)
		}
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown hooks run after in-flight requests drain.
func (s *Server) Run(ctx context.Context) error {
	s.setupRoutes()

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		var errs []error
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}

		for _, hook := range s.shutdownHooks {
			if err := hook(shutdownCtx); err != nil {
				errs = append(errs, err)
				s.log.Error("shutdown hook failed", slog.Any("error", err))
			}
		}

		return errors.Join(errs...)
	})

	err = g.Wait()
	if err == nil {
		s.log.Info("shutdown completed")
	}
	return err
}
