package api

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/tracefold/provenance/pkg/provenance"
)

// Server assembles the HTTP surface: the submission endpoint, the object
// lookup, and a liveness probe.
type Server struct {
	recorder *provenance.Recorder
	lookup   ObjectLookup
	logger   *slog.Logger
	limiter  *RateLimiter
	tracer   trace.Tracer
	metrics  *Metrics
}

// ServerOption customizes the assembled handler chain.
type ServerOption func(*Server)

// WithRateLimiter enables per-IP rate limiting.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = rl }
}

// WithTracer wraps every request in a server span.
func WithTracer(t trace.Tracer) ServerOption {
	return func(s *Server) { s.tracer = t }
}

// WithRequestMetrics records RED instruments for every request.
func WithRequestMetrics(m *Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

func NewServer(recorder *provenance.Recorder, lookup ObjectLookup, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{recorder: recorder, lookup: lookup, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/provenance", NewProvenanceHandler(s.recorder, s.logger))
	mux.Handle("/object_lookup", NewObjectHandler(s.lookup, s.logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	h = WithTracing(s.tracer, h)
	h = WithMetrics(s.metrics, h)
	h = WithAccessLog(s.logger, h)
	h = WithRequestID(h)
	return h
}
