package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-candidate-scout/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type kvStore struct {
	db    *pgxpool.Pool
	table string
}

// NewKVStore creates the backing table when missing. The table name comes from config, so it is quoted.
func NewKVStore(ctx context.Context, db *pgxpool.Pool, table string) (domain.KeyValueStore, error) {
	s := &kvStore{db: db, table: pq.QuoteIdentifier(table)}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.table)
	if _, err := db.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.table, err)
	}
	return s, nil
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, s.table)
	_, err := s.db.Exec(ctx, query, key, value)
	return err
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
