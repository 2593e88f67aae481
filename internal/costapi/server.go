// Package costapi serves the JSON cost endpoints that the status
// widget and any embedded dashboard poll.
package costapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yjpartners/valet/internal/ledger"
)

// RateSource yields the USD→KRW conversion rate.
type RateSource interface {
	Rate(ctx context.Context) float64
}

// Config tunes the server.
type Config struct {
	Host           string
	Port           int
	BudgetLimitKRW float64
	BudgetWarnPct  float64
}

// Server wires the usage ledger and the exchange rate into the HTTP
// API.
type Server struct {
	ledger *ledger.Ledger
	rates  RateSource
	engine *gin.Engine
	cfg    Config
}

// New assembles the server and its routes.
func New(l *ledger.Ledger, rates RateSource, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware())

	s := &Server{ledger: l, rates: rates, engine: engine, cfg: cfg}

	engine.GET("/", s.handleBanner)
	api := engine.Group("/api/cost")
	{
		api.GET("/summary", s.handleSummary)
		api.GET("/today", s.handleToday)
		api.GET("/monthly", s.handleMonthly)
		api.GET("/history", s.handleHistory)
		api.GET("/models", s.handleModels)
		api.GET("/projects", s.handleProjects)
	}

	return s
}

// Router exposes the handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("Cost API listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("cost API server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down cost API: %w", err)
	}
	return nil
}

// corsMiddleware allows any origin. The endpoints are read-only and
// meant to be polled from embedded pages.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
