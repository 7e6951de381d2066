package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tracefold/provenance/pkg/provenance"
)

// SQLRecordStore implements provenance.EventStore. Each write shape maps to
// a (primary, audit) statement pair; the audit statement carries the same
// columns into prov_audit on the fallback path.
type SQLRecordStore struct {
	db *sql.DB
}

func NewSQLRecordStore(db *sql.DB) *SQLRecordStore {
	return &SQLRecordStore{db: db}
}

const (
	insertBasic = `INSERT INTO prov_records (object_uuid, event_id, category_id, service_id, username, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertProxy = `INSERT INTO prov_records (object_uuid, event_id, category_id, service_id, username, proxy_username, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertData = `INSERT INTO prov_records (object_uuid, event_id, category_id, service_id, username, event_data, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertFull = `INSERT INTO prov_records (object_uuid, event_id, category_id, service_id, username, proxy_username, event_data, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	auditBasic = `INSERT INTO prov_audit (object_uuid, event_id, category_id, service_id, username, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	auditProxy = `INSERT INTO prov_audit (object_uuid, event_id, category_id, service_id, username, proxy_username, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	auditData = `INSERT INTO prov_audit (object_uuid, event_id, category_id, service_id, username, event_data, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	auditFull = `INSERT INTO prov_audit (object_uuid, event_id, category_id, service_id, username, proxy_username, event_data, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

type statementPair struct {
	primary string
	audit   string
}

var shapeStatements = map[provenance.WriteShape]statementPair{
	provenance.ShapeBasic: {insertBasic, auditBasic},
	provenance.ShapeProxy: {insertProxy, auditProxy},
	provenance.ShapeData:  {insertData, auditData},
	provenance.ShapeFull:  {insertFull, auditFull},
}

// shapeArgs builds the positional arguments for a shape's statements. The
// argument list matches the column order of the statement pair above.
func shapeArgs(shape provenance.WriteShape, rec provenance.Record) []any {
	base := []any{rec.ObjectUUID, rec.EventID, rec.CategoryID, rec.ServiceID, rec.Username}
	switch shape {
	case provenance.ShapeProxy:
		base = append(base, *rec.ProxyUsername)
	case provenance.ShapeData:
		base = append(base, *rec.EventData)
	case provenance.ShapeFull:
		base = append(base, *rec.ProxyUsername, *rec.EventData)
	}
	return append(base, rec.SourceAddress, rec.CreatedAt)
}

// InsertRecord executes the primary insert for the shape. Anything other
// than exactly one affected row is a write failure.
func (s *SQLRecordStore) InsertRecord(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	stmts, ok := shapeStatements[shape]
	if !ok {
		return fmt.Errorf("unknown write shape %d", shape)
	}
	if err := execOne(ctx, s.db, stmts.primary, shapeArgs(shape, rec)...); err != nil {
		return fmt.Errorf("%s insert failed: %w", shape, err)
	}
	return nil
}

// InsertAudit executes the audit-shaped counterpart insert.
func (s *SQLRecordStore) InsertAudit(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	stmts, ok := shapeStatements[shape]
	if !ok {
		return fmt.Errorf("unknown write shape %d", shape)
	}
	if err := execOne(ctx, s.db, stmts.audit, shapeArgs(shape, rec)...); err != nil {
		return fmt.Errorf("%s audit insert failed: %w", shape, err)
	}
	return nil
}
