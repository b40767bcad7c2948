package domain

import "time"

// Role identifies what an operator token may do
type Role string

const (
	// RoleOperator may run payroll checks
	RoleOperator Role = "operator"
)

// AuthContext contains the authenticated operator for request context
type AuthContext struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// TokenClaims represents the operator JWT payload
type TokenClaims struct {
	Subject   string `json:"sub"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// NewTokenClaims builds claims valid for ttl from now
func NewTokenClaims(subject string, role Role, now time.Time, ttl time.Duration) *TokenClaims {
	return &TokenClaims{
		Subject:   subject,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}
