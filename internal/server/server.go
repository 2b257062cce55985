// Package server exposes plans, progress, plan generation and the mentor
// chat over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/careerpath/internal/chat"
	"github.com/abhisek/careerpath/internal/config"
	"github.com/abhisek/careerpath/internal/planner"
	"github.com/abhisek/careerpath/internal/plans"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Deps are the services behind the API. Planner may be nil when no LLM
// provider is configured; plan generation then answers 503.
type Deps struct {
	Plans   *plans.Service
	Planner *planner.Planner
	Chat    *chat.Service
	Logger  *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	logger *zap.Logger
}

// New builds the server and its routes.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	logger := deps.Logger.With(zap.String("component", "server"))
	h := &handlers{deps: deps, logger: logger}
	return &Server{
		cfg:    cfg,
		engine: newRouter(h, cfg.CORSOrigins, logger),
		logger: logger,
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
