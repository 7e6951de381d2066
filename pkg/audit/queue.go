// Package audit implements the failure-handling floor of the recording
// path: the audit sink that captures records whose primary write failed,
// and the durable queues that absorb whatever the sink itself cannot store.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry kinds routed through the failure queues.
const (
	KindAuditFailure = "audit_failure"
	KindHistoryError = "history_error"
)

// Entry is one queued failure. Payload holds the attempted record (and, for
// history errors, the chain code) so an operator can reconstruct the write.
type Entry struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEntry builds a queue entry, marshaling the payload. A payload that
// cannot be marshaled is replaced with its error text; the queue floor never
// rejects an entry for shape.
func NewEntry(kind string, payload any) Entry {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(map[string]string{"marshal_error": err.Error()})
	}
	return Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}
}

// Queue is a durable destination whose only job is to not lose data.
type Queue interface {
	Enqueue(ctx context.Context, e Entry) error
}
