package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"guardiangate/internal/gate"
	"guardiangate/internal/gate/token"
	"guardiangate/pkg/platform/sentinel"
)

// RedisStore is the production implementation for deployments where the
// consent submission and the registration attempt may land on different
// instances. Redis owns expiry via per-key TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed token store. The client lifecycle
// is managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, tok string, payload gate.ConsentPayload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal consent payload: %w", err)
	}
	if err := s.client.Set(ctx, token.Key(tok), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store consent payload: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, tok string) (gate.ConsentPayload, error) {
	raw, err := s.client.Get(ctx, token.Key(tok)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gate.ConsentPayload{}, fmt.Errorf("consent token not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return gate.ConsentPayload{}, fmt.Errorf("load consent payload: %w", err)
	}
	var payload gate.ConsentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return gate.ConsentPayload{}, fmt.Errorf("unmarshal consent payload: %w", err)
	}
	return payload, nil
}

func (s *RedisStore) Delete(ctx context.Context, tok string) error {
	// DEL of a missing key is already a no-op in redis.
	if err := s.client.Del(ctx, token.Key(tok)).Err(); err != nil {
		return fmt.Errorf("delete consent payload: %w", err)
	}
	return nil
}
