package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
)

const maxHeaderBytes = 64 << 10

// Server обслуживает REST API корзины и WebSocket-подписки.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig, logger logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		logger: logger,
	}
}

// Run блокируется до остановки; штатная остановка через Stop ошибкой не считается
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Infof("HTTP server listening on %s", lis.Addr())

	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop перестаёт принимать запросы и ждёт завершения текущих.
// Перехваченные WebSocket-соединения закрывает хаб.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warnf("HTTP server forced to stop: %v", err)
		return s.httpServer.Close()
	}

	s.logger.Infof("HTTP server stopped gracefully")
	return nil
}
