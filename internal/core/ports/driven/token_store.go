package driven

import (
	"context"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// TokenStore holds the single current credential.
// It does not evaluate expiry; that is the caller's decision.
type TokenStore interface {
	// Save atomically replaces the current credential.
	// Returns only after the write is durable in the backend.
	Save(ctx context.Context, cred *domain.Credential) error

	// Current returns the most recently saved credential.
	// Returns domain.ErrNotFound if none was ever saved.
	Current(ctx context.Context) (*domain.Credential, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error
}
