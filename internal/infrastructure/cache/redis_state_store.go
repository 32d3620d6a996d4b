package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopsight-gateway/internal/ports"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// RedisStateStore implements the CSRF state cache on Redis. GETDEL makes
// the read-and-delete atomic, so a state token is consumed at most once
// even under duplicate concurrent callbacks.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a new Redis-backed state store
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

var _ ports.StateStore = (*RedisStateStore)(nil)

// Put stores state -> shopDomain with the given expiry
func (s *RedisStateStore) Put(ctx context.Context, state, shopDomain string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, shopDomain, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Take atomically reads and deletes the entry. An unknown or expired state
// returns "" with no error; both cases are indistinguishable by design.
func (s *RedisStateStore) Take(ctx context.Context, state string) (string, error) {
	shopDomain, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to take oauth state: %w", err)
	}
	return shopDomain, nil
}
