package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/email-extractor/internal/extractor"
	"github.com/JakeFAU/email-extractor/internal/metrics"
	"github.com/JakeFAU/email-extractor/internal/policy/ratelimit"
)

const (
	maxBodyBytes       = 1 << 20
	readyCheckTimeout  = 2 * time.Second
	internalErrMessage = "Internal server error"
)

// Extractor runs the extraction pipeline for one request.
type Extractor interface {
	Process(ctx context.Context, req extractor.Request, clientIP string) (extractor.Result, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config controls server middleware.
type Config struct {
	RequestTimeout    time.Duration
	TrustProxyHeaders bool
}

// Server wires HTTP handlers to the extraction service.
type Server struct {
	router  chi.Router
	svc     Extractor
	limiter *ratelimit.Limiter
	ready   Pinger
	cfg     Config
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes. A nil limiter
// disables rate limiting; a nil ready checker always reports ready.
func NewServer(svc Extractor, limiter *ratelimit.Limiter, ready Pinger, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:     svc,
		limiter: limiter,
		ready:   ready,
		cfg:     cfg,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger, cfg.TrustProxyHeaders))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(cfg.RequestTimeout))
		}
		if limiter != nil {
			r.Use(rateLimitMiddleware(limiter, cfg.TrustProxyHeaders, logger))
		}
		r.Post("/extract-emails", s.extractEmails)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, s.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) extractEmails(w http.ResponseWriter, r *http.Request) {
	var req extractor.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := s.svc.Process(r.Context(), req, clientIP(r, s.cfg.TrustProxyHeaders))
	if err != nil {
		s.writeExtractionError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, res)
}

func (s *Server) writeExtractionError(w http.ResponseWriter, r *http.Request, err error) {
	var e *extractor.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case extractor.KindInput:
			writeError(w, s.logger, http.StatusBadRequest, e.Message)
			return
		case extractor.KindConfig:
			writeError(w, s.logger, http.StatusInternalServerError, e.Message)
			return
		}
	}
	s.logger.Error("extraction failed",
		zap.String("request_id", requestID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, s.logger, http.StatusInternalServerError, map[string]string{
		"error":   internalErrMessage,
		"details": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}
