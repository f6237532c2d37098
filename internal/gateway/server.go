// Package gateway is the HTTP surface of the reply service: platform
// webhooks in, analytics out.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/firstlinehq/firstline/internal/config"
	"github.com/firstlinehq/firstline/internal/service"
	"github.com/firstlinehq/firstline/internal/store"
)

// Server handles webhook ingestion and the analytics API.
type Server struct {
	cfg        *config.Config
	dispatcher *service.Dispatcher
	store      *store.Store

	rateLimiter *WebhookRateLimiter

	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates a gateway server.
func NewServer(cfg *config.Config, d *service.Dispatcher, st *store.Store) *Server {
	return &Server{
		cfg:         cfg,
		dispatcher:  d,
		store:       st,
		rateLimiter: NewWebhookRateLimiter(cfg.Gateway.RateLimitRPM),
	}
}

// BuildMux creates and caches the HTTP mux with all routes registered.
func (s *Server) BuildMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("POST /webhooks/{platform}", s.handleWebhook)

	mux.HandleFunc("GET /api/analytics/summary", s.handleAnalyticsSummary)
	mux.HandleFunc("GET /api/analytics/intents", s.handleAnalyticsIntents)
	mux.HandleFunc("GET /api/analytics/variants", s.handleAnalyticsVariants)

	s.mux = mux
	return mux
}

// Start begins listening. Blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	mux := s.BuildMux()

	addr := fmt.Sprintf("%s:%d", s.cfg.Gateway.Host, s.cfg.Gateway.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	slog.Info("gateway starting", "addr", addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("gateway server: %w", err)
	}
	return nil
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.store.AnalyticsSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analytics query failed")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAnalyticsIntents(w http.ResponseWriter, r *http.Request) {
	dist, err := s.store.IntentDistribution(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analytics query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"intents": dist})
}

func (s *Server) handleAnalyticsVariants(w http.ResponseWriter, r *http.Request) {
	dist, err := s.store.VariantDistribution(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analytics query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"variants": dist})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
