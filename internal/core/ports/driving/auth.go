package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// AuthService validates and issues operator tokens guarding the check API
type AuthService interface {
	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// IssueToken mints an operator token valid for ttl
	IssueToken(ctx context.Context, subject string, ttl time.Duration) (string, error)
}
