package repository

import "context"

// KeyValueStore is a scoped byte store. Get reports false for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
