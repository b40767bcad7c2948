package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure MockStateStore implements StateStore
var _ driven.StateStore = (*MockStateStore)(nil)

// MockStateStore is an in-memory StateStore for testing
type MockStateStore struct {
	mu     sync.Mutex
	states map[string]*domain.AuthorizationState

	// Now overrides the clock used for expiry checks.
	Now func() time.Time

	// SaveErr and ConsumeErr are returned when set.
	SaveErr    error
	ConsumeErr error
}

// NewMockStateStore creates a new MockStateStore
func NewMockStateStore() *MockStateStore {
	return &MockStateStore{
		states: make(map[string]*domain.AuthorizationState),
		Now:    time.Now,
	}
}

func (m *MockStateStore) Save(ctx context.Context, state *domain.AuthorizationState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	m.states[state.State] = &cp
	return nil
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if m.ConsumeErr != nil {
		return false, m.ConsumeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok || s.Consumed || s.IsExpired(m.Now()) {
		return false, nil
	}
	s.Consumed = true
	return true, nil
}

func (m *MockStateStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for k, v := range m.states {
		if v.Consumed || v.IsExpired(now) {
			delete(m.states, k)
		}
	}
	return nil
}

func (m *MockStateStore) Ping(ctx context.Context) error { return nil }

// Len returns how many states are held
func (m *MockStateStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

// Get returns a copy of a stored state
func (m *MockStateStore) Get(state string) (*domain.AuthorizationState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}
