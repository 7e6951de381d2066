package audit

import (
	"context"
	"log/slog"

	"github.com/tracefold/provenance/pkg/provenance"
)

// AuditWriter executes the audit-shaped counterpart insert for a record.
type AuditWriter interface {
	InsertAudit(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error
}

// SQLSink implements provenance.Sink: it writes the failed record through
// the audit-shaped insert and escalates to the failure queue when even that
// write cannot complete. It never panics; queue errors terminate in the log.
type SQLSink struct {
	writer AuditWriter
	queue  Queue
	logger *slog.Logger
}

func NewSQLSink(writer AuditWriter, queue Queue, logger *slog.Logger) *SQLSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSink{writer: writer, queue: queue, logger: logger.With("component", "audit-sink")}
}

// Record captures the attempted record. The returned error reports the audit
// insert outcome; by the time it returns, the payload has either been stored
// or queued.
func (s *SQLSink) Record(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	err := s.writer.InsertAudit(ctx, shape, rec)
	if err == nil {
		s.logger.Info("audit record captured",
			"uuid", rec.ObjectUUID, "shape", shape.String(), "created_at", rec.CreatedAt)
		return nil
	}

	s.logger.Error("audit insert failed, escalating to failure queue",
		"uuid", rec.ObjectUUID, "error", err)
	if qerr := s.queue.Enqueue(ctx, NewEntry(KindAuditFailure, rec)); qerr != nil {
		s.logger.Error("failure queue write failed", "uuid", rec.ObjectUUID, "error", qerr)
	}
	return err
}
