// Package memory is an in-memory RecordStore for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/core/ports"
)

// Store keeps records per table in process memory.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]*domain.StoredRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{tables: make(map[string]map[string]*domain.StoredRecord)}
}

// Put inserts a record; duplicate ids are rejected to match the durable
// backends' write-once contract.
func (s *Store) Put(ctx context.Context, table string, rec *domain.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.tables[table]
	if !ok {
		records = make(map[string]*domain.StoredRecord)
		s.tables[table] = records
	}
	if _, exists := records[rec.ID]; exists {
		return fmt.Errorf("record %s already exists", rec.ID)
	}

	clone := *rec
	records[rec.ID] = &clone
	return nil
}

// Get returns a copy of the stored record.
func (s *Store) Get(ctx context.Context, table, id string) (*domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tables[table][id]
	if !ok {
		return nil, fmt.Errorf("record %s not found", id)
	}
	clone := *rec
	return &clone, nil
}

// Len reports how many records a table holds.
func (s *Store) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

var _ ports.RecordStore = (*Store)(nil)
