package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	sessions *service.Sessions
	log      *logger.Logger
}

// New creates a server around a configured router. sessions may be nil.
func New(cfg config.ServerConfig, router *gin.Engine, sessions *service.Sessions, log *logger.Logger) *Server {
	return &Server{
		router:   router,
		sessions: sessions,
		log:      log,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routes, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then closes every editor session
// and waits for their uploads.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.sessions != nil {
		s.sessions.Shutdown()
	}
	return err
}
