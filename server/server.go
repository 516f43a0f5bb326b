// Package server exposes a read-only HTTP view of the live market
// state: per-symbol summaries, candles and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmadakra1997/tradecore/indicators"
	"github.com/ahmadakra1997/tradecore/orderbook"
	"github.com/ahmadakra1997/tradecore/store"
	"github.com/ahmadakra1997/tradecore/transport"
)

// Analytics is the slice of the client the server reads from.
type Analytics interface {
	Status() transport.Status
	Store() *store.Rolling
	ComputeIndicators(symbol string, enabled indicators.Enable, params indicators.Params) indicators.Bundle
	AnalyzeOrderBook(symbol string) *orderbook.Metrics
	Signals(symbol string) []indicators.Signal
}

// Server serves the HTTP API.
type Server struct {
	analytics Analytics
	logger    *slog.Logger
	http      *http.Server
}

// New builds the server. gatherer may be nil to skip /metrics.
func New(addr string, analytics Analytics, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{analytics: analytics, logger: logger}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router(gatherer),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/symbols", s.handleSymbols)
		r.Get("/summary/{symbol}", s.handleSummary)
		r.Get("/candles/{symbol}", s.handleCandles)
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"stream": string(s.analytics.Status()),
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"symbols": s.analytics.Store().Symbols(),
	})
}

type summaryResponse struct {
	Symbol     string             `json:"symbol"`
	LastPrice  float64            `json:"lastPrice"`
	Candles    int                `json:"candles"`
	Indicators indicators.Bundle  `json:"indicators"`
	OrderBook  *orderbook.Metrics `json:"orderBook,omitempty"`
	Signals    []indicators.Signal `json:"signals,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	candles := s.analytics.Store().Candles(symbol)
	if len(candles) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown symbol"})
		return
	}

	resp := summaryResponse{
		Symbol:     symbol,
		Candles:    len(candles),
		Indicators: s.analytics.ComputeIndicators(symbol, indicators.EnableAll(), indicators.Params{}),
		OrderBook:  s.analytics.AnalyzeOrderBook(symbol),
		Signals:    s.analytics.Signals(symbol),
	}
	if price, ok := s.analytics.Store().LastPrice(symbol); ok {
		resp.LastPrice = price
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	candles := s.analytics.Store().Candles(symbol)
	if len(candles) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown symbol"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": symbol, "candles": candles})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
