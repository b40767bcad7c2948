package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure MockTokenStore implements TokenStore
var _ driven.TokenStore = (*MockTokenStore)(nil)

// MockTokenStore is an in-memory TokenStore for testing
type MockTokenStore struct {
	mu      sync.RWMutex
	current *domain.Credential
	saves   int

	// SaveErr and CurrentErr are returned when set.
	SaveErr    error
	CurrentErr error
}

// NewMockTokenStore creates a new MockTokenStore
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{}
}

func (m *MockTokenStore) Save(ctx context.Context, cred *domain.Credential) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cred
	m.current = &cp
	m.saves++
	return nil
}

func (m *MockTokenStore) Current(ctx context.Context) (*domain.Credential, error) {
	if m.CurrentErr != nil {
		return nil, m.CurrentErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.current
	return &cp, nil
}

func (m *MockTokenStore) Ping(ctx context.Context) error { return nil }

// Saves returns how many times Save succeeded
func (m *MockTokenStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
