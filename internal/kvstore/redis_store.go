package kvstore

import (
	"context"
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStore(redisClient *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	cmd := s.redisClient.Set(ctx, s.keyPrefix+key, value, 0)
	if err := cmd.Err(); err != nil {
		// redis reports maxmemory rejections as OOM errors
		if isOOMErr(err) {
			return errors.Join(ErrQuotaExceeded, err)
		}
		return err
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.redisClient.Del(ctx, s.keyPrefix+key).Err()
}

func isOOMErr(err error) bool {
	var redisErr redis.Error
	if !errors.As(err, &redisErr) {
		return false
	}
	return strings.HasPrefix(redisErr.Error(), "OOM")
}
