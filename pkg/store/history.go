package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tracefold/provenance/pkg/provenance"
)

// SQLHistoryStore holds chain-membership rows. A chain's establishing row
// carries the parent marker; continuation rows do not.
type SQLHistoryStore struct {
	db *sql.DB
}

func NewSQLHistoryStore(db *sql.DB) *SQLHistoryStore {
	return &SQLHistoryStore{db: db}
}

const parentMarker = "Y"

const (
	queryHistoryMembers = `SELECT COUNT(*) FROM prov_history WHERE code = $1`
	insertHistory       = `INSERT INTO prov_history (code, object_uuid, event_id, category_id, service_id, username, created_at, parent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// CountMembers returns how many rows already belong to the chain code.
func (s *SQLHistoryStore) CountMembers(ctx context.Context, code string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, queryHistoryMembers, code).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chain members: %w", err)
	}
	return count, nil
}

// InsertMember appends a chain row. Concurrent parent inserts for the same
// code are not serialized here; the schema deliberately carries no
// uniqueness constraint on (code, parent).
func (s *SQLHistoryStore) InsertMember(ctx context.Context, code string, rec provenance.Record, parent bool) error {
	marker := ""
	if parent {
		marker = parentMarker
	}
	err := execOne(ctx, s.db, insertHistory,
		code, rec.ObjectUUID, rec.EventID, rec.CategoryID, rec.ServiceID,
		rec.Username, rec.CreatedAt, marker,
	)
	if err != nil {
		return fmt.Errorf("history insert failed: %w", err)
	}
	return nil
}
