package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a Redis server, for sharing cached
// market data across runs and machines.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore connects to the Redis server at addr. db selects the
// Redis logical database.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, ctx: context.Background()}
}

// Ping checks the connection, so a misconfigured address fails at
// startup instead of on the first cached read.
func (s *RedisStore) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

func (s *RedisStore) Put(key, value string, ttl time.Duration) error {
	return s.client.Set(s.ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(key string) (string, bool, error) {
	value, err := s.client.Get(s.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Remove(key string) error {
	return s.client.Del(s.ctx, key).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }
