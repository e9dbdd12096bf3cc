package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	errCh      chan error
}

// NewRouter wires the webhook endpoint and a liveness probe.
func NewRouter(webhook gin.HandlerFunc, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))

	engine.POST("/webhook/ozon", webhook)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return engine
}

func New(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		logger: logger,
		errCh:  make(chan error, 1),
	}
}

// Start binds the listener synchronously so a busy port fails here, then
// serves in the background.
func (s *Server) Start() error {
	const operation = "server.Start"

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("%s: listen %s: %w", operation, s.httpServer.Addr, err)
	}

	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
			s.errCh <- err
		}
		close(s.errCh)
	}()

	return nil
}

// Errors reports a serve failure after Start. It is closed once serving ends.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
