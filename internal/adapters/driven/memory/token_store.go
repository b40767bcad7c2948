package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore holds the current credential in a single slot.
type TokenStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewTokenStore creates an empty TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Save replaces the current credential.
func (s *TokenStore) Save(_ context.Context, cred *domain.Credential) error {
	if cred == nil {
		return domain.ErrInvalidInput
	}
	c := *cred

	s.mu.Lock()
	s.cred = &c
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the current credential or domain.ErrNotFound.
func (s *TokenStore) Current(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil {
		return nil, domain.ErrNotFound
	}
	c := *s.cred
	return &c, nil
}

// Ping always succeeds.
func (s *TokenStore) Ping(_ context.Context) error { return nil }
