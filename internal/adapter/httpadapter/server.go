// Package httpadapter exposes the card construction API plus health,
// readiness, and metrics endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/builder"
	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxRequestBody bounds a construction request body; real requests are a
// few hundred bytes.
const maxRequestBody = 1 << 16

// CardConstructor builds one scene card from a request.
type CardConstructor interface {
	Construct(ctx context.Context, req builder.Request) (*domain.SceneCard, error)
}

// CardPublisher pushes a finished card to the downstream sink.
type CardPublisher interface {
	Publish(ctx context.Context, card *domain.SceneCard) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the card API and operational HTTP endpoints.
type Server struct {
	httpServer  *http.Server
	constructor CardConstructor
	publisher   CardPublisher // nil when publishing is disabled
	logger      *slog.Logger
}

// NewServer creates an HTTP server with the card construction route plus
// /healthz, /readyz, and /metrics. publisher may be nil.
func NewServer(addr string, constructor CardConstructor, publisher CardPublisher, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		constructor: constructor,
		publisher:   publisher,
		logger:      logger,
	}

	mux.HandleFunc("POST /v1/cards", s.handleConstructCard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleConstructCard(w http.ResponseWriter, r *http.Request) {
	var req builder.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return
	}

	card, err := s.constructor.Construct(r.Context(), req)
	if err != nil {
		s.writeConstructError(w, err)
		return
	}

	// Publish failures are logged but do not fail the request; the caller
	// already has the card.
	if s.publisher != nil {
		if err := s.publisher.Publish(r.Context(), card); err != nil {
			s.logger.Warn("card publish failed", "card_id", card.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, card)
}

func (s *Server) writeConstructError(w http.ResponseWriter, err error) {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": inputErr.Error(),
			"field": inputErr.Field,
		})
		return
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.logger.Error("card failed schema validation", "rule", validationErr.Rule, "field", validationErr.Field)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "constructed card failed validation"})
		return
	}

	s.logger.Error("card construction failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "card construction failed"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
