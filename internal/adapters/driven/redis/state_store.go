package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

const (
	statePrefix = "payroll-check:oauth:state:"

	statePending  = "pending"
	stateConsumed = "consumed"
)

// StateStore implements driven.StateStore using Redis.
// Each state is one key whose TTL matches the state's expiry, so several
// instances can share pending flows.
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a new Redis-backed StateStore.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Save stores a pending state. Fails when the value already exists.
func (s *StateStore) Save(ctx context.Context, state *domain.AuthorizationState) error {
	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: state already expired", domain.ErrInvalidInput)
	}

	ok, err := s.client.SetNX(ctx, statePrefix+state.State, statePending, ttl).Result()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: duplicate state", domain.ErrInvalidInput)
	}
	return nil
}

// consumeScript marks a pending state consumed and keeps its remaining TTL.
// Returns 1 only for the caller that flipped it.
var consumeScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) ~= ARGV[1] then
		return 0
	end
	local ttl = redis.call("pttl", KEYS[1])
	redis.call("set", KEYS[1], ARGV[2])
	if ttl > 0 then
		redis.call("pexpire", KEYS[1], ttl)
	end
	return 1
`)

// Consume atomically checks and marks state.
// Expired keys are already gone, so they report false like unknown ones.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{statePrefix + state}, statePending, stateConsumed).Int64()
	if err != nil {
		return false, fmt.Errorf("consume state: %w", err)
	}
	return res == 1, nil
}

// Cleanup deletes consumed markers. Expiry itself is handled by key TTLs.
func (s *StateStore) Cleanup(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, statePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("cleanup states: %w", err)
		}
		if val == stateConsumed {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("cleanup states: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cleanup states: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
