package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront-kit/cart-service/internal/app/config"
	"github.com/storefront-kit/cart-service/internal/platform/logger"
)

type Server struct {
	httpServer *http.Server
	log        logger.Logger
	port       string
}

func NewServer(log logger.Logger, cfg config.HTTPServerConfig, handler *CartHandler) *Server {
	r := chi.NewRouter()
	r.Use(RequestLogger(log))

	r.Post("/cart", handler.HandleCartAction)
	r.Get("/cart", handler.HandleGetCart)
	r.Get("/health", handler.HandleHealth)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
		port:       cfg.Port,
	}
}

func (s *Server) Start() error {
	s.log.Infof("HTTP server is starting on port %s", s.port)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server is stopping gracefully")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown timed out, forcing stop")
		if closeErr := s.httpServer.Close(); closeErr != nil {
			return closeErr
		}
		return err
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}
