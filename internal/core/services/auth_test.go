package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven/mocks"
)

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := NewAuthService(mocks.NewMockAuthAdapter())
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, "ops@example.com", time.Hour)
	require.NoError(t, err)

	authCtx, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", authCtx.Subject)
	assert.Equal(t, domain.RoleOperator, authCtx.Role)
}

func TestAuthService_IssueToken_InvalidInput(t *testing.T) {
	svc := NewAuthService(mocks.NewMockAuthAdapter())
	ctx := context.Background()

	_, err := svc.IssueToken(ctx, "", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.IssueToken(ctx, "ops", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_ValidateToken_Errors(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(adapter)
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateToken(ctx, "not-base64!!")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, err := adapter.GenerateToken(domain.NewTokenClaims("ops", domain.RoleOperator, time.Now().Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	wrongRole, err := adapter.GenerateToken(domain.NewTokenClaims("ops", domain.Role("viewer"), time.Now(), time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, wrongRole)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
