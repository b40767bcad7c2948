// Package memory provides process-scoped stores for single-instance
// deployments. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StateStore = (*StateStore)(nil)

// StateStore keeps pending authorization states in a TTL cache.
// A consumed state is deleted, so it can never be accepted again.
type StateStore struct {
	mu  sync.Mutex
	c   *gocache.Cache
	now func() time.Time
}

// NewStateStore creates a StateStore whose janitor sweeps expired
// entries every cleanupInterval.
func NewStateStore(cleanupInterval time.Duration) *StateStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &StateStore{
		c:   gocache.New(gocache.NoExpiration, cleanupInterval),
		now: time.Now,
	}
}

// Save stores a new state until its ExpiresAt.
func (s *StateStore) Save(_ context.Context, state *domain.AuthorizationState) error {
	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: state already expired", domain.ErrInvalidInput)
	}
	if err := s.c.Add(state.State, state.ExpiresAt, ttl); err != nil {
		return fmt.Errorf("%w: duplicate state", domain.ErrInvalidInput)
	}
	return nil
}

// Consume deletes state and reports whether it was pending and unexpired.
func (s *StateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.c.Get(state)
	if !ok {
		return false, nil
	}
	s.c.Delete(state)

	expiresAt, _ := v.(time.Time)
	return s.now().Before(expiresAt), nil
}

// Cleanup removes expired states.
func (s *StateStore) Cleanup(_ context.Context) error {
	s.c.DeleteExpired()
	return nil
}

// Ping always succeeds.
func (s *StateStore) Ping(_ context.Context) error { return nil }

// Len returns the number of stored states, including expired ones the
// janitor has not swept yet.
func (s *StateStore) Len() int {
	return s.c.ItemCount()
}
