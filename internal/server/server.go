// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"smartinvest/internal/analysis"
	"smartinvest/internal/logger"
	"smartinvest/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *store.Config
	svc    *analysis.Service
}

// New creates a configured API server with all routes and middleware.
func New(cfg *store.Config, svc *analysis.Service) *Server {
	s := &Server{cfg: cfg, svc: svc}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "HTTP server listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	logger.Info(context.Background(), "Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout()))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/stock/{symbol}", s.handleQuote)
		r.Get("/stock/{symbol}/history", s.handleHistory)
		r.Get("/stocks/multiple", s.handleMultiQuote)
		r.Get("/news/{symbol}", s.handleNews)
		r.Get("/sentiment/{symbol}", s.handleSentiment)
		r.Get("/fundamentals/{symbol}", s.handleFundamentals)

		r.Get("/analysis/{symbol}", s.handleBasicAnalysis)
		r.Get("/analysis/technical/{symbol}", s.handleTechnicalAnalysis)
		r.Get("/analysis/comprehensive/{symbol}", s.handleComprehensiveAnalysis)
		r.Get("/analysis/complete/{symbol}", s.handleCompleteAnalysis)

		r.Get("/comparison/sector/{symbol}", s.handleSectorComparison)
		r.Get("/demo/portfolio", s.handleDemoPortfolio)
	})

	return r
}
