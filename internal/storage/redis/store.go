// Package redis implements the record store on Redis hashes, for
// deployments that already run Redis and do not want an embedded database.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/core/ports"
)

// Store writes each record as a hash under "<table>:<id>".
type Store struct {
	client *redis.Client
}

// New connects a store to the given Redis instance.
func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Put inserts a single record. HSETNX on the payload field keeps the
// write-once contract: an existing record is never overwritten.
func (s *Store) Put(ctx context.Context, table string, rec *domain.StoredRecord) error {
	key := table + ":" + rec.ID

	ok, err := s.client.HSetNX(ctx, key, "payload", rec.Payload).Result()
	if err != nil {
		return fmt.Errorf("write record %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("record %s already exists", key)
	}

	if err := s.client.HSet(ctx, key, "created_at", rec.CreatedAt).Err(); err != nil {
		return fmt.Errorf("write record %s timestamp: %w", key, err)
	}
	return nil
}

// Get reads a record back by id.
func (s *Store) Get(ctx context.Context, table, id string) (*domain.StoredRecord, error) {
	key := table + ":" + id

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("record %s not found", key)
	}

	rec := &domain.StoredRecord{ID: id, Payload: fields["payload"]}
	if _, err := fmt.Sscanf(fields["created_at"], "%d", &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("record %s has malformed timestamp: %w", key, err)
	}
	return rec, nil
}

// Ping verifies connectivity at boot.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ ports.RecordStore = (*Store)(nil)
