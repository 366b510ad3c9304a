package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MuzBot/model"

	"github.com/go-redis/redis/v8"
)

const (
	resultKeyPrefix = "muzbot:result:"
	queryKeyPrefix  = "muzbot:query:"
)

// RedisStore is a TrackCache and QueryRegistry backed by Redis, for
// deployments where cached tokens should survive a process restart.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store over an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores or overwrites the descriptor for token.
func (s *RedisStore) Put(ctx context.Context, token string, track *model.CatalogTrack) error {
	if s.client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	data, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to marshal track: %w", err)
	}
	if err := s.client.Set(ctx, resultKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}
	return nil
}

// Get resolves a token.
func (s *RedisStore) Get(ctx context.Context, token string) (*model.CatalogTrack, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	data, err := s.client.Get(ctx, resultKeyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached track: %w", err)
	}
	var track model.CatalogTrack
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached track: %w", err)
	}
	return &track, nil
}

// Register stores a query under a fresh short key.
func (s *RedisStore) Register(ctx context.Context, query string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}
	key := newQueryKey()
	if err := s.client.Set(ctx, queryKeyPrefix+key, query, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to register query: %w", err)
	}
	return key, nil
}

// Lookup resolves a query key.
func (s *RedisStore) Lookup(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}
	query, err := s.client.Get(ctx, queryKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to look up query: %w", err)
	}
	return query, nil
}
