package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garyjia/invoice-desk/internal/application/port"
)

// KVStore is a string-keyed blob store over the kv_store table
type KVStore struct {
	db *DB
}

// NewKVStore creates a KV store backed by db
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.getExecutor(ctx).QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Put writes value under key, replacing any previous value
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.getExecutor(ctx).ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

var _ port.KVStore = (*KVStore)(nil)
