package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-candidate-scout/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_store (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type kvStore struct {
	db *sql.DB
}

// NewKVStore creates the backing table when missing.
func NewKVStore(ctx context.Context, db *sql.DB) (domain.KeyValueStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &kvStore{db: db}, nil
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
