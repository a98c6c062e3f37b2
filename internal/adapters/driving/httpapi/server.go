// Package httpapi exposes the assistant over HTTP: the chat proxy
// endpoint, the knowledge read endpoint, a health check, and optional
// static serving of the portfolio site.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// StaticDir, when set, serves the site's files for paths not
	// handled by the API.
	StaticDir string

	// RateLimit is the sustained requests per second per client IP.
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-IP burst allowance.
	RateBurst int

	// Owner is the site owner's display name, used in the grounding
	// prompt.
	Owner string
}

// Server is the HTTP front of the assistant. The chat endpoint is a
// stateless proxy: every request carries its own context items and
// history, and the server holds no session state between requests.
type Server struct {
	cfg     Config
	llm     driven.CompletionService
	raw     driven.RawKnowledgeProvider
	prompts driven.PromptStore
	limiter *ipLimiter
	server  *http.Server
}

// New creates a new HTTP server. llm may be nil when no credential is
// configured; the chat endpoint then reports it per request. raw may
// be nil when no knowledge document exists.
func New(cfg Config, llm driven.CompletionService, raw driven.RawKnowledgeProvider, prompts driven.PromptStore) *Server {
	s := &Server{
		cfg:     cfg,
		llm:     llm,
		raw:     raw,
		prompts: prompts,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newIPLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/data", s.handleData)
	mux.HandleFunc("/api/ping", s.handlePing)
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.server = &http.Server{
		Addr:        cfg.Addr,
		Handler:     s.limit(mux),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: chat responses stream for as long as the
		// model generates.
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	logger.Info("HTTP server listening on %s", s.cfg.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// limit wraps the handler with per-IP rate limiting when configured.
func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handlePing is the health check.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"method": r.Method,
	})
}

// handleData serves the raw knowledge document.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.raw == nil {
		writeError(w, http.StatusNotFound, "knowledge document not found")
		return
	}
	data, err := s.raw.Raw(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "knowledge document not found")
			return
		}
		logger.Warn("api/data: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
