package driven

import "github.com/custodia-labs/payroll-check/internal/core/domain"

// AuthAdapter handles operator token cryptographic operations.
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
