package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisMu     sync.RWMutex
)

// NewRedisClient connects to Redis as configured and pings it. It returns
// (nil, nil) when Redis is disabled.
func NewRedisClient(ctx context.Context, cfg *Config) (*redis.Client, error) {
	if !cfg.RedisEnabled {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// ConnectRedis initializes the shared Redis client from LoadConfig.
// Returns the client (or nil) and an error if connection/ping failed.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		var rdb *redis.Client
		rdb, err = NewRedisClient(context.Background(), LoadConfig())
		SetRedisClient(rdb)
	})
	return GetRedisClient(), err
}

// GetRedisClient returns the shared Redis client; nil when Redis is off.
func GetRedisClient() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// SetRedisClient replaces the shared client. Tests use it to inject a redismock client.
func SetRedisClient(client *redis.Client) {
	redisMu.Lock()
	defer redisMu.Unlock()
	redisClient = client
}
