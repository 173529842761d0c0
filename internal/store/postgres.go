package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"github.com/ppiankov/wrangle/internal/model"
)

// ErrInvalidTable is returned for table names that are not plain identifiers
var ErrInvalidTable = errors.New("invalid table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresSink stores each record as a JSONB document
type PostgresSink struct {
	db     *sql.DB
	insert string
}

// NewPostgresSink connects to dsn and ensures the target table exists
func NewPostgresSink(ctx context.Context, dsn, table string) (*PostgresSink, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL(table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresSink{db: db, insert: insertSQL(table)}, nil
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id BIGSERIAL PRIMARY KEY,
    kind TEXT NOT NULL,
    osm_id TEXT,
    doc JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, pq.QuoteIdentifier(table))
}

func insertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (kind, osm_id, doc) VALUES ($1, $2, $3)`, pq.QuoteIdentifier(table))
}

// Put inserts one record
func (s *PostgresSink) Put(ctx context.Context, rec *model.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	var osmID sql.NullString
	if rec.ID != nil {
		osmID = sql.NullString{String: *rec.ID, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, s.insert, string(rec.Kind), osmID, string(doc)); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
