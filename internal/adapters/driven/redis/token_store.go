package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/payroll-check/internal/adapters/driven/secrets"
	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

const credentialKey = "payroll-check:credential"

// TokenStore keeps the current credential as one sealed value without TTL.
// The provider-reported lifetime is not enforced here.
type TokenStore struct {
	client    *redis.Client
	encryptor *secrets.Encryptor
}

// NewTokenStore creates a new Redis-backed TokenStore.
func NewTokenStore(client *redis.Client, encryptor *secrets.Encryptor) *TokenStore {
	return &TokenStore{client: client, encryptor: encryptor}
}

// Save replaces the current credential.
func (s *TokenStore) Save(ctx context.Context, cred *domain.Credential) error {
	if cred == nil {
		return domain.ErrInvalidInput
	}
	blob, err := s.encryptor.Encrypt(cred)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}
	if err := s.client.Set(ctx, credentialKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Current returns the stored credential or domain.ErrNotFound.
func (s *TokenStore) Current(ctx context.Context) (*domain.Credential, error) {
	blob, err := s.client.Get(ctx, credentialKey).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	var cred domain.Credential
	if err := s.encryptor.Decrypt(blob, &cred); err != nil {
		return nil, fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return &cred, nil
}

// Ping checks if the Redis backend is healthy.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
