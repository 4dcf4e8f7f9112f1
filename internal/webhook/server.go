package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erickweyunga/ghala-hooks/internal/events"
	"github.com/erickweyunga/ghala-hooks/internal/metrics"
)

// Server receives Ghala webhook deliveries, authenticates them, decodes the
// payload, and dispatches the inner data block on the event bus.
type Server struct {
	config Config
	bus    EventDispatcher
	auth   *Authenticator
	logger *slog.Logger
	server *http.Server
}

// New creates a new webhook server instance.
func New(config Config, bus EventDispatcher, logger *slog.Logger) *Server {
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config: config,
		bus:    bus,
		auth:   NewAuthenticator(config.MaxTimestampAge),
		logger: logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "events", len(s.config.Secrets))

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// PathFor returns the route path for an event, e.g. "order.created" ->
// "/ghala/webhook/order-created".
func PathFor(event string) string {
	return BasePath + "/" + strings.ReplaceAll(event, ".", "-")
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// One POST route per event category
	for _, event := range Events() {
		r.Post(PathFor(event), s.handleEvent(event))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Log request (no body content for security)
		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleEvent returns the handler for one event category. The flow is
// fixed: extract headers -> timestamp freshness -> signature -> decode ->
// dispatch -> acknowledge.
func (s *Server) handleEvent(event string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Enforce body size limit
		limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
		body, err := io.ReadAll(limitedReader)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to read request body")
			return
		}
		if int64(len(body)) > s.config.MaxBodySize {
			metrics.WebhookRequests.WithLabelValues(event, "payload_too_large").Inc()
			s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}

		timestamp, signature, err := ExtractHeaders(r)
		if err != nil {
			metrics.WebhookRequests.WithLabelValues(event, "missing_headers").Inc()
			s.respondError(w, http.StatusBadRequest, "Missing required headers")
			return
		}

		if err := s.auth.Verify(s.config.Secrets[event], timestamp, signature, body); err != nil {
			s.rejectAuth(w, event, err)
			return
		}

		decoded, err := Decode(body, SchemaFor(event))
		if err != nil {
			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) {
				metrics.WebhookRequests.WithLabelValues(event, "invalid_payload").Inc()
				s.logger.Warn("webhook payload rejected", "event", event, "reason", decodeErr.Reason)
				s.respondError(w, http.StatusUnprocessableEntity, decodeErr.Error())
				return
			}
			s.respondError(w, http.StatusInternalServerError, "failed to decode payload")
			return
		}

		// Dispatch the inner data block, not the envelope.
		payload := decoded
		if env, ok := decoded.(Envelope); ok {
			payload = env.Payload()
		}

		meta := events.Meta{
			Timestamp:  timestamp,
			Signature:  signature,
			DeliveryID: uuid.NewString(),
		}

		dispatchCtx := ctx
		if s.config.DispatchTimeout > 0 {
			var cancel context.CancelFunc
			dispatchCtx, cancel = context.WithTimeout(ctx, s.config.DispatchTimeout)
			defer cancel()
		}

		start := time.Now()
		err = s.bus.Dispatch(dispatchCtx, event, payload, meta)
		metrics.DispatchDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())

		if err != nil {
			// Authentication already succeeded here: the sender gets a 500
			// and may redeliver even though some handlers ran.
			metrics.WebhookRequests.WithLabelValues(event, "handler_failure").Inc()
			metrics.HandlerFailures.WithLabelValues(event).Inc()
			s.logger.Error("event dispatch failed",
				"event", event,
				"delivery_id", meta.DeliveryID,
				"error", err,
			)
			s.respondError(w, http.StatusInternalServerError, "handler failure")
			return
		}

		metrics.WebhookRequests.WithLabelValues(event, "verified").Inc()
		s.logger.Info("webhook dispatched",
			"event", event,
			"delivery_id", meta.DeliveryID,
			"dispatch_ms", time.Since(start).Milliseconds(),
		)

		s.respondJSON(w, http.StatusOK, AckResponse{
			Message: fmt.Sprintf("%s webhook received and verified", event),
		})
	}
}

// rejectAuth maps an authentication failure to a 400 response. Details are
// textual only; the computed digest and secret never leave the process.
func (s *Server) rejectAuth(w http.ResponseWriter, event string, err error) {
	var outcome, detail string
	switch {
	case errors.Is(err, ErrInvalidTimestamp):
		outcome, detail = "invalid_timestamp", "Invalid timestamp"
	case errors.Is(err, ErrStaleTimestamp):
		outcome, detail = "stale_timestamp", "Stale timestamp"
	case errors.Is(err, ErrInvalidSignature):
		outcome, detail = "invalid_signature", "Invalid signature"
	default:
		outcome, detail = "invalid_signature", "Invalid signature"
	}

	metrics.WebhookRequests.WithLabelValues(event, outcome).Inc()
	s.logger.Warn("webhook rejected", "event", event, "reason", outcome)
	s.respondError(w, http.StatusBadRequest, detail)
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, ErrorResponse{Detail: detail})
}
