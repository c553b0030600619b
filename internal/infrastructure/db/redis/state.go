package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore holds one-shot OAuth state nonces in Redis.
// Key format: oauth_state:<nonce>
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Save records state for one login attempt (expires after stateTTL).
func (s *StateStore) Save(ctx context.Context, state string) error {
	return s.client.Set(ctx, s.key(state), "1", stateTTL).Err()
}

// Consume removes state and reports whether it was present. A nonce can
// only ever be consumed once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(state)).Result()
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return n > 0, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
