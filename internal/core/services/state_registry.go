package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// DefaultStateTTL is how long an issued state is accepted.
const DefaultStateTTL = 10 * time.Minute

// stateBytes is the entropy of an issued state.
const stateBytes = 32

// StateRegistry issues CSRF state values and accepts each one once.
type StateRegistry struct {
	store driven.StateStore
	ttl   time.Duration
	now   func() time.Time
}

// NewStateRegistry creates a registry over the given store.
// A non-positive ttl falls back to DefaultStateTTL.
func NewStateRegistry(store driven.StateStore, ttl time.Duration) *StateRegistry {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateRegistry{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns how long issued states stay valid.
func (r *StateRegistry) TTL() time.Duration {
	return r.ttl
}

// Issue generates and stores a fresh state.
func (r *StateRegistry) Issue(ctx context.Context) (*domain.AuthorizationState, error) {
	value, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	now := r.now()
	state := &domain.AuthorizationState{
		State:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	if err := r.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return state, nil
}

// ValidateAndConsume reports whether token is a known, unexpired, unused
// state, marking it used. Concurrent callers racing on one token see
// exactly one true.
func (r *StateRegistry) ValidateAndConsume(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := r.store.Consume(ctx, token)
	if err != nil {
		return false, fmt.Errorf("consume state: %w", err)
	}
	return ok, nil
}

// Cleanup removes expired and consumed states from the store.
func (r *StateRegistry) Cleanup(ctx context.Context) error {
	return r.store.Cleanup(ctx)
}

// generateState returns stateBytes of crypto/rand as hex.
func generateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// stateFingerprint identifies a state in logs without revealing it.
func stateFingerprint(state string) string {
	if state == "" {
		return "empty"
	}
	sum := sha256.Sum256([]byte(state))
	return hex.EncodeToString(sum[:])[:12]
}
