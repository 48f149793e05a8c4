package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVStore keeps cart snapshots in the cart_snapshots table.
type KVStore struct {
	pool *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM cart_snapshots WHERE key = $1;`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO cart_snapshots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
