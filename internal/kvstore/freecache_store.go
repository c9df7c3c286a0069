package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

var _ Store = (*FreecacheStore)(nil)

// FreecacheStore is an in-process fake of Store for tests and local runs.
// Values are lost on restart, so production wires RedisStore instead.
// A single value may not exceed 1/1024 of the cache size, which mimics a storage quota.
type FreecacheStore struct {
	cache *freecache.Cache
}

func NewFreecacheStore(sizeBytes int) *FreecacheStore {
	return &FreecacheStore{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (s *FreecacheStore) Get(_ context.Context, key string) (string, bool, error) {
	val, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (s *FreecacheStore) Set(_ context.Context, key, value string) error {
	// no expiration, values live until removed or evicted
	err := s.cache.Set([]byte(key), []byte(value), 0)
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		return fmt.Errorf("%w: %d bytes: %w", ErrQuotaExceeded, len(value), err)
	}
	return err
}

func (s *FreecacheStore) Remove(_ context.Context, key string) error {
	s.cache.Del([]byte(key))
	return nil
}
