// Package history maintains the chaining scheme that groups causally
// related provenance records under an opaque tracking code.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/tracefold/provenance/pkg/audit"
	"github.com/tracefold/provenance/pkg/provenance"
)

// ChainStore is the persistence surface for chain membership.
type ChainStore interface {
	CountMembers(ctx context.Context, code string) (int, error)
	InsertMember(ctx context.Context, code string, rec provenance.Record, parent bool) error
}

// Manager implements provenance.History. Failures here are reported to the
// history-error queue and never fail the write they accompany.
type Manager struct {
	store  ChainStore
	queue  audit.Queue
	logger *slog.Logger
}

func NewManager(store ChainStore, queue audit.Queue, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, queue: queue, logger: logger.With("component", "history")}
}

// GenerateCode derives a chain code from the identifying triple. The same
// inputs always produce the same code.
func GenerateCode(username, objectUUID string, createdAt int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", username, objectUUID, createdAt)))
	return hex.EncodeToString(sum[:])
}

// strayPayload is the queued form of a code that arrived without the
// tracking flag, or a chain insert that failed.
type strayPayload struct {
	Code   string            `json:"code"`
	Record provenance.Record `json:"record"`
}

// Record creates or extends a chain. With no code supplied, a fresh code is
// derived and returned; the chain is brand new by construction, so no
// membership lookup or row is needed yet. With a code supplied, the first
// recorded member becomes the parent and every later member a child of the
// same code, never re-parented.
func (m *Manager) Record(ctx context.Context, code *string, rec provenance.Record) (string, error) {
	if code == nil {
		generated := GenerateCode(rec.Username, rec.ObjectUUID, rec.CreatedAt)
		m.logger.Info("history code generated", "history_code", generated, "uuid", rec.ObjectUUID)
		return generated, nil
	}

	members, err := m.store.CountMembers(ctx, *code)
	if err != nil {
		m.report(ctx, *code, rec, err)
		return "", err
	}

	parent := members == 0
	if err := m.store.InsertMember(ctx, *code, rec, parent); err != nil {
		m.report(ctx, *code, rec, err)
		return "", err
	}

	m.logger.Info("history request recorded",
		"history_code", *code, "uuid", rec.ObjectUUID, "parent", parent)
	return *code, nil
}

// ReportStray queues a code that was supplied without the tracking flag.
func (m *Manager) ReportStray(ctx context.Context, code string, rec provenance.Record) {
	m.report(ctx, code, rec, nil)
}

func (m *Manager) report(ctx context.Context, code string, rec provenance.Record, cause error) {
	entry := audit.NewEntry(audit.KindHistoryError, strayPayload{Code: code, Record: rec})
	if err := m.queue.Enqueue(ctx, entry); err != nil {
		m.logger.Error("history error queue write failed",
			"history_code", code, "uuid", rec.ObjectUUID, "error", err, "cause", cause)
	}
}
