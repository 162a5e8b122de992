// Package sqlite implements the record store on an embedded SQLite
// database. It is the default durable backend for accepted submissions.
package sqlite

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/core/ports"
)

// tablePattern restricts table names to plain identifiers; table names are
// interpolated into DDL/DML and must never carry caller input.
var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a SQLite-backed RecordStore. Tables are created lazily on first
// write.
type Store struct {
	db *sqlx.DB

	mu     sync.Mutex
	tables map[string]struct{}
}

// New opens (or creates) the database at path.
func New(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute pragma: %w", err)
		}
	}

	return &Store{db: db, tables: make(map[string]struct{})}, nil
}

// Put inserts a single record. Records are write-once: a duplicate id is an
// error, never an overwrite.
func (s *Store) Put(ctx context.Context, table string, rec *domain.StoredRecord) error {
	if err := s.ensureTable(ctx, table); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (id, payload, created_at) VALUES (?, ?, ?)", table)
	if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.Payload, rec.CreatedAt); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Get reads a record back by id. The pipeline never reads; this exists for
// operator tooling and round-trip verification.
func (s *Store) Get(ctx context.Context, table, id string) (*domain.StoredRecord, error) {
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	var rec domain.StoredRecord
	query := fmt.Sprintf("SELECT id, payload, created_at FROM %s WHERE id = ?", table)
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureTable(ctx context.Context, table string) error {
	if !tablePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; ok {
		return nil
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id TEXT PRIMARY KEY,
payload TEXT NOT NULL,
created_at INTEGER NOT NULL
)`, table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	s.tables[table] = struct{}{}
	return nil
}

var _ ports.RecordStore = (*Store)(nil)
