package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/ganfan/internal/repository"
)

// KVStore exposes the kv table under the repository.KVStore interface.
type KVStore struct {
	db *DB
}

var _ repository.KVStore = (*KVStore)(nil)

// KV returns the key/value store backed by this database.
func (db *DB) KV() *KVStore {
	return &KVStore{db: db}
}

// Get returns found=false, err=nil for an absent key.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites any previous value; last write wins.
func (s *KVStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing key %q: %w", key, err)
	}
	return nil
}
