package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/payroll-check/internal/adapters/driven/secrets"
	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// credentialSecrets is the encrypted part of a credential row.
type credentialSecrets struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenStore keeps the current credential in a single row.
// Token values are stored encrypted; metadata stays queryable.
type TokenStore struct {
	db        *sql.DB
	encryptor *secrets.Encryptor
}

// NewTokenStore creates a new PostgreSQL-backed token store.
func NewTokenStore(db *sql.DB, encryptor *secrets.Encryptor) *TokenStore {
	return &TokenStore{db: db, encryptor: encryptor}
}

// Save replaces the current credential.
func (s *TokenStore) Save(ctx context.Context, cred *domain.Credential) error {
	if cred == nil {
		return domain.ErrInvalidInput
	}

	blob, err := s.encryptor.Encrypt(credentialSecrets{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}

	query := `
		INSERT INTO credentials (id, secrets, token_type, scope, expires_in, company_id, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			secrets = EXCLUDED.secrets,
			token_type = EXCLUDED.token_type,
			scope = EXCLUDED.scope,
			expires_in = EXCLUDED.expires_in,
			company_id = EXCLUDED.company_id,
			created_at = EXCLUDED.created_at,
			updated_at = NOW()
	`

	_, err = s.db.ExecContext(ctx, query,
		blob,
		cred.TokenType,
		cred.Scope,
		cred.ExpiresIn,
		cred.CompanyID,
		cred.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Current returns the stored credential or domain.ErrNotFound.
func (s *TokenStore) Current(ctx context.Context) (*domain.Credential, error) {
	query := `
		SELECT secrets, token_type, scope, expires_in, company_id, created_at
		FROM credentials
		WHERE id = 1
	`

	var (
		blob []byte
		cred domain.Credential
	)
	err := s.db.QueryRowContext(ctx, query).Scan(
		&blob,
		&cred.TokenType,
		&cred.Scope,
		&cred.ExpiresIn,
		&cred.CompanyID,
		&cred.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	var plain credentialSecrets
	if err := s.encryptor.Decrypt(blob, &plain); err != nil {
		return nil, fmt.Errorf("decrypt credential: %w", err)
	}
	cred.AccessToken = plain.AccessToken
	cred.RefreshToken = plain.RefreshToken

	return &cred, nil
}

// Ping checks if the database is reachable
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
