package driven

import (
	"context"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// StateStore persists pending authorization states for CSRF protection.
// States are single-use and expire after a short period.
type StateStore interface {
	// Save stores a new authorization state until its ExpiresAt.
	// A duplicate value or an ExpiresAt not in the future (including the
	// zero time) is rejected with domain.ErrInvalidInput.
	Save(ctx context.Context, state *domain.AuthorizationState) error

	// Consume atomically marks the state consumed.
	// Returns true only for the one caller that flipped an existing,
	// unconsumed, unexpired state. Unknown states return false, nil.
	Consume(ctx context.Context, state string) (bool, error)

	// Cleanup removes expired and consumed states.
	Cleanup(ctx context.Context) error

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error
}
