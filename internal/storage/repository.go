// Package storage implements the transactional relational store on SQLite.
// Each mutating method runs inside its own implicit transaction; uniqueness
// violations surface as core.ConflictError and missing foreign keys as
// core.ErrNotFound.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fleetplus/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping verifies the database connection is still alive.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// uniqueFields maps SQLite's "UNIQUE constraint failed" column lists to the
// field name reported to callers.
var uniqueFields = map[string]string{
	"vehicles.plate":                        "plate",
	"component_types.name":                  "name",
	"suppliers.tax_id":                      "tax_id",
	"invoices.supplier_id, invoices.number": "invoice number",
}

// mapWriteErr translates driver-level constraint failures into the domain
// error taxonomy. Other errors pass through unchanged.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		cols := strings.TrimSpace(msg[idx+len("UNIQUE constraint failed: "):])
		if end := strings.IndexAny(cols, "(;"); end > 0 {
			cols = strings.TrimSpace(cols[:end])
		}
		field, ok := uniqueFields[cols]
		if !ok {
			field = cols
		}
		return &core.ConflictError{Field: field}
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fmt.Errorf("referenced entity: %w", core.ErrNotFound)
	}
	return err
}

// one runs a single-row query and maps sql.ErrNoRows to core.ErrNotFound.
func one(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// nullStr stores empty strings as NULL so sparse unique columns (tax_id)
// do not collide on "".
func nullStr(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func strOf(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// exists checks write-time referential integrity for references that are not
// enforced as foreign keys (see migrations).
func (r *SQLiteRepository) exists(ctx context.Context, table string, id int64) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM `+table+` WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, core.ErrNotFound)
	}
	return nil
}
