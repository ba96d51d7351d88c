package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the token in a Redis key with no TTL, so a session survives
// restarts until Clear is called.
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis returns a store using rdb. A non-empty profile namespaces the key
// so several profiles can share one Redis database.
func NewRedis(rdb *redis.Client, profile string) *Redis {
	key := Key
	if profile != "" {
		key = fmt.Sprintf("%s:%s", Key, profile)
	}
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	tok, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return tok, nil
}

func (r *Redis) Save(ctx context.Context, token string) error {
	if err := r.rdb.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
