package provenance

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// EventStore persists provenance records. Implementations must treat any
// outcome other than exactly one affected row as a failed insert.
type EventStore interface {
	InsertRecord(ctx context.Context, shape WriteShape, rec Record) error
}

// Registry reports how many registration rows exist for an object UUID.
// The engine never creates registrations; it only requires exactly one.
type Registry interface {
	CountRegistrations(ctx context.Context, objectUUID string) (int, error)
}

// Sink is the last-resort durable capture of a record whose primary write
// failed. Implementations absorb their own failures (escalating to a failure
// queue) and must never panic.
type Sink interface {
	Record(ctx context.Context, shape WriteShape, rec Record) error
}

// History manages chain membership for grouped records. Record inserts a
// parent or child row for a supplied code, or derives and returns a fresh
// code when none is given. ReportStray routes a code that arrived without
// the tracking flag to the history-error queue.
type History interface {
	Record(ctx context.Context, code *string, rec Record) (string, error)
	ReportStray(ctx context.Context, code string, rec Record)
}

// Recorder drives a request through validation, resolution, the registration
// check, the shaped insert, and optional history tracking. It holds no
// per-request state; all coordination is delegated to the backing store.
type Recorder struct {
	resolver Resolver
	registry Registry
	store    EventStore
	history  History
	sink     Sink
	clock    func() time.Time
	logger   *slog.Logger
}

// Deps bundles the recorder's collaborators. Clock and Logger may be nil;
// they default to time.Now and slog.Default.
type Deps struct {
	Resolver Resolver
	Registry Registry
	Store    EventStore
	History  History
	Sink     Sink
	Clock    func() time.Time
	Logger   *slog.Logger
}

// NewRecorder constructs a Recorder from its dependency bundle.
func NewRecorder(deps Deps) *Recorder {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		resolver: deps.Resolver,
		registry: deps.Registry,
		store:    deps.Store,
		history:  deps.History,
		sink:     deps.Sink,
		clock:    clock,
		logger:   logger.With("component", "recorder"),
	}
}

const warningStrayHistoryCode = "Track history flag is not set but history code was sent"

// Record runs one request to completion and converts every outcome into a
// structured Result; no error unwinds past this method.
func (r *Recorder) Record(ctx context.Context, req *Request) Result {
	if req.CreatedAt == 0 {
		req.CreatedAt = r.clock().Unix()
	}

	log := r.logger.With(
		"uuid", req.ObjectUUID,
		"service", req.ServiceName,
		"category", req.CategoryName,
		"event", req.EventName,
		"created_at", req.CreatedAt,
	)

	if ok, reason := ValidateRequest(req); !ok {
		log.Warn("validation rejected request", "reason", reason)
		return failure(detailValidationFailed, reason, http.StatusBadRequest)
	}

	ids, err := ResolveAll(ctx, r.resolver, req)
	if errors.Is(err, ErrUnresolved) {
		log.Warn("identifier resolution failed", "error", err)
		return failure(detailBadNames, "", http.StatusBadRequest)
	}
	if err != nil {
		log.Error("identifier lookup error", "error", err)
		return failure(detailNotRecorded, "Identifier lookup could not be completed.", http.StatusInternalServerError)
	}

	rec := NewRecord(req, ids)
	shape := req.Shape()

	count, err := r.registry.CountRegistrations(ctx, req.ObjectUUID)
	if err != nil {
		log.Error("registration check error", "error", err)
		r.auditFallback(ctx, shape, rec, log)
		return failure(detailAuditRecorded, "", http.StatusInternalServerError)
	}
	switch {
	case count == 0:
		log.Error("object not registered", "count", count)
		r.auditFallback(ctx, shape, rec, log)
		return failure(detailNotRecorded, reportMissingObject, http.StatusInternalServerError)
	case count > 1:
		log.Error("duplicate object registration", "count", count)
		r.auditFallback(ctx, shape, rec, log)
		return failure(detailNotRecorded, reportDuplicateObject, http.StatusInternalServerError)
	}

	if err := r.store.InsertRecord(ctx, shape, rec); err != nil {
		log.Error("primary insert failed", "shape", shape.String(), "error", err)
		r.auditFallback(ctx, shape, rec, log)
		return failure(detailAuditRecorded, "", http.StatusInternalServerError)
	}
	log.Info("provenance recorded", "shape", shape.String(), "username", req.Username)

	res := success()
	switch {
	case req.TrackHistory:
		code, err := r.history.Record(ctx, req.HistoryCode, rec)
		if err != nil {
			// History tracking is best-effort; the write outcome stands.
			log.Error("history tracking failed", "error", err)
			break
		}
		if req.HistoryCode == nil {
			res.HistoryCode = code
			log.Info("history code generated", "history_code", code)
		}
	case req.HistoryCode != nil:
		log.Warn("history code sent without tracking flag", "history_code", *req.HistoryCode)
		r.history.ReportStray(ctx, *req.HistoryCode, rec)
		res.Warning = warningStrayHistoryCode
	}

	return res
}

// auditFallback captures the attempted record through the sink. Sink
// failures terminate in the failure queue inside the sink itself; here they
// are only logged.
func (r *Recorder) auditFallback(ctx context.Context, shape WriteShape, rec Record, log *slog.Logger) {
	if err := r.sink.Record(ctx, shape, rec); err != nil {
		log.Error("audit fallback failed", "error", err)
	}
}
