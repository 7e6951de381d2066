package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLRegistry implements provenance.Registry and the read-only object
// lookup. Registrations are created by the collector, never here.
type SQLRegistry struct {
	db *sql.DB
}

func NewSQLRegistry(db *sql.DB) *SQLRegistry {
	return &SQLRegistry{db: db}
}

const (
	queryCheckUUID  = `SELECT COUNT(*) FROM prov_objects WHERE object_uuid = $1`
	queryUUIDLookup = `SELECT object_uuid FROM prov_objects WHERE service_object_id = $1`
)

// CountRegistrations returns how many registration rows exist for the UUID.
func (r *SQLRegistry) CountRegistrations(ctx context.Context, objectUUID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, queryCheckUUID, objectUUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to check object registration: %w", err)
	}
	return count, nil
}

// LookupUUID resolves a service object id to the registered object UUID.
// Zero matches yields ErrObjectNotFound; more than one yields
// ErrMultipleObjects so the caller can report the incident.
func (r *SQLRegistry) LookupUUID(ctx context.Context, serviceObjectID string) (string, error) {
	rows, err := r.db.QueryContext(ctx, queryUUIDLookup, serviceObjectID)
	if err != nil {
		return "", fmt.Errorf("failed to look up object: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var uuids []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return "", err
		}
		uuids = append(uuids, u)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(uuids) {
	case 0:
		return "", ErrObjectNotFound
	case 1:
		return uuids[0], nil
	default:
		return "", ErrMultipleObjects
	}
}
