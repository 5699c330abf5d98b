package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"microblog/internal/common"
)

const tokenKeyPrefix = "session:"

// ConnectRedis builds a Redis client for the session token store and
// verifies the connection with a ping.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisTokenStore persists the session token -> username binding in Redis
// with a per-token TTL. It satisfies the session.TokenStore port.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Put(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, tokenKeyPrefix+token, username, ttl).Err(); err != nil {
		return fmt.Errorf("RedisTokenStore.Put: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("RedisTokenStore.Get: %w", err)
	}
	return username, nil
}

func (s *RedisTokenStore) Del(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("RedisTokenStore.Del: %w", err)
	}
	return nil
}
