package kvstore

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when a value does not fit into the store.
var ErrQuotaExceeded = errors.New("kv store quota exceeded")

// Store is a string key/value store with no transactions.
// Get reports a missing key with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
