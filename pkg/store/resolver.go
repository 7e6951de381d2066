package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tracefold/provenance/pkg/provenance"
)

// SQLResolver implements provenance.Resolver over database/sql.
type SQLResolver struct {
	db *sql.DB
}

func NewSQLResolver(db *sql.DB) *SQLResolver {
	return &SQLResolver{db: db}
}

const (
	queryEventID          = `SELECT id FROM prov_events WHERE name = $1`
	queryCategoryID       = `SELECT id FROM prov_categories WHERE name = $1`
	queryServiceID        = `SELECT id FROM prov_services WHERE name = $1`
	queryServiceVersionID = `SELECT id FROM prov_services WHERE name = $1 AND version = $2`
)

// Resolve looks up the identifier for a name. Services are version-scoped
// unless the version is the default sentinel; events and categories resolve
// by name alone. Zero rows maps to provenance.ErrUnresolved.
func (r *SQLResolver) Resolve(ctx context.Context, name string, kind provenance.Kind, version string) (int64, error) {
	var row *sql.Row
	switch {
	case kind == provenance.KindEvent:
		row = r.db.QueryRowContext(ctx, queryEventID, name)
	case kind == provenance.KindService && version == provenance.DefaultVersion:
		row = r.db.QueryRowContext(ctx, queryServiceID, name)
	case kind == provenance.KindService:
		row = r.db.QueryRowContext(ctx, queryServiceVersionID, name, version)
	default:
		row = r.db.QueryRowContext(ctx, queryCategoryID, name)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s %q", provenance.ErrUnresolved, kind, name)
		}
		return 0, fmt.Errorf("failed to resolve %s %q: %w", kind, name, err)
	}
	return id, nil
}
