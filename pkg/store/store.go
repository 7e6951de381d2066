// Package store implements the relational backing for the provenance
// engine: identifier resolution, the object registry, the shaped record and
// audit inserts, and history chain rows.
//
// It uses database/sql and works against both Postgres and SQLite via
// standard drivers.
package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNoRowInserted reports an insert whose affected-row count was not
	// exactly one. The engine treats it the same as a driver error.
	ErrNoRowInserted = errors.New("insert affected no rows")

	// ErrObjectNotFound reports a service object id with no registration.
	ErrObjectNotFound = errors.New("object does not exist")

	// ErrMultipleObjects reports a service object id registered more than
	// once, which indicates upstream data corruption.
	ErrMultipleObjects = errors.New("multiple objects found with the same service_object_id")
)

const schema = `
CREATE TABLE IF NOT EXISTS prov_services (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	version TEXT NOT NULL DEFAULT 'Default'
);

CREATE TABLE IF NOT EXISTS prov_categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prov_events (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prov_objects (
	object_uuid TEXT NOT NULL,
	service_object_id TEXT NOT NULL,
	registered_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS prov_records (
	object_uuid TEXT NOT NULL,
	event_id BIGINT NOT NULL,
	category_id BIGINT NOT NULL,
	service_id BIGINT NOT NULL,
	username TEXT NOT NULL,
	proxy_username TEXT,
	event_data TEXT,
	source_addr TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS prov_audit (
	object_uuid TEXT NOT NULL,
	event_id BIGINT NOT NULL,
	category_id BIGINT NOT NULL,
	service_id BIGINT NOT NULL,
	username TEXT NOT NULL,
	proxy_username TEXT,
	event_data TEXT,
	source_addr TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS prov_history (
	code TEXT NOT NULL,
	object_uuid TEXT NOT NULL,
	event_id BIGINT NOT NULL,
	category_id BIGINT NOT NULL,
	service_id BIGINT NOT NULL,
	username TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	parent TEXT NOT NULL DEFAULT ''
);
`

// Init creates the schema if it does not exist. Identifier and registry
// tables are populated out of band; this engine only reads them.
func Init(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// execOne runs an insert and enforces the exactly-one-row success signal.
func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrNoRowInserted
	}
	return nil
}
