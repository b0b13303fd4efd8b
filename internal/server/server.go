// Package server exposes the Quizler HTTP API: quiz generation,
// result persistence, leaderboard, and auth.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizler/quizler/internal/auth"
	"github.com/quizler/quizler/internal/config"
	"github.com/quizler/quizler/internal/extract"
	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/store"
)

// Server wires the HTTP API together.
type Server struct {
	engine  *gin.Engine
	log     *logger.Logger
	cfg     config.Config
	gen     quizgen.Generator
	fetcher *extract.Fetcher
	auth    *auth.Service
	results store.ResultRepo
}

// Options holds the server's constructed dependencies. Each is created
// once per process and injected; the server keeps no ambient globals.
type Options struct {
	Config    config.Config
	Log       *logger.Logger
	Generator quizgen.Generator
	Fetcher   *extract.Fetcher
	Auth      *auth.Service
	Results   store.ResultRepo
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.Config.Mode == "prod" || opts.Config.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		log:     opts.Log.With("component", "server"),
		cfg:     opts.Config,
		gen:     opts.Generator,
		fetcher: opts.Fetcher,
		auth:    opts.Auth,
		results: opts.Results,
	}
	s.engine = s.buildRouter()
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
