package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session keys in a Redis hash per session.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at addr and verifies the
// connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis store: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func sessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}

// Set writes one key.
func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.HSet(ctx, sessionKey(sessionID), key, value).Err(); err != nil {
		return fmt.Errorf("set %s/%s: %w", sessionID, key, err)
	}
	return nil
}

// Get reads one key.
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.client.HGet(ctx, sessionKey(sessionID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", sessionID, key, err)
	}
	return value, nil
}

// Delete removes one key.
func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, sessionKey(sessionID), key).Err(); err != nil {
		return fmt.Errorf("delete %s/%s: %w", sessionID, key, err)
	}
	return nil
}

// Clear removes every key of the session.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the client connection.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis store: %w", err)
	}
	return nil
}
