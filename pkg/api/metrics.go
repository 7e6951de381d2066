package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the RED instruments (rate, errors, duration) recorded for
// every request that passes through the handler chain.
type Metrics struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics registers the request instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("provenance.requests.total",
		metric.WithDescription("Total number of HTTP requests processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	errCounter, err := meter.Int64Counter("provenance.errors.total",
		metric.WithDescription("Total number of HTTP requests that failed server-side"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("provenance.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, errors: errCounter, duration: duration}, nil
}

// statusWriter captures the status code written by the inner handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// WithMetrics records one request count, a duration sample, and an error
// count for 5xx responses. A nil Metrics is a passthrough.
func WithMetrics(m *Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
			attribute.Int("http.status_code", sw.status),
		)
		ctx := r.Context()
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		if sw.status >= http.StatusInternalServerError {
			m.errors.Add(ctx, 1, attrs)
		}
	})
}
