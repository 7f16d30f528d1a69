package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pdfchatui:"

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisSessions keeps the document id in a redis key without expiry
type RedisSessions struct {
	rdb *redis.Client
	key string
}

// NewRedisSessions creates a new RedisSessions storage
func NewRedisSessions(rdb *redis.Client, key string) *RedisSessions {
	return &RedisSessions{rdb: rdb, key: redisKeyPrefix + key}
}

// Get returns the stored document id, or an empty string if the key is missing
func (r *RedisSessions) Get(ctx context.Context) (string, error) {
	id, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session for key %s: %w", r.key, err)
	}

	slog.Debug("read session",
		slog.String("key", r.key),
		slog.String("id", id),
	)
	return id, nil
}

// Set overwrites the stored document id
func (r *RedisSessions) Set(ctx context.Context, id string) error {
	if err := r.rdb.Set(ctx, r.key, id, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}

	slog.Debug("session saved",
		slog.String("key", r.key),
		slog.String("id", id),
	)
	return nil
}
