package server

import (
	"context"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/gateway/config"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg config.HTTPServer, router *echo.Echo) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
