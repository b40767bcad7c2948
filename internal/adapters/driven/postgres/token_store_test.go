package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/custodia-labs/payroll-check/internal/adapters/driven/secrets"
	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// captureBlob records the encrypted argument so it can be returned on read.
type captureBlob struct {
	blob []byte
}

func (c *captureBlob) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if !ok {
		return false
	}
	c.blob = b
	return true
}

func testEncryptor(t *testing.T) *secrets.Encryptor {
	t.Helper()
	enc, err := secrets.NewEncryptorFromPassphrase("test passphrase")
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}
	return enc
}

func TestTokenStore_RoundTrip(t *testing.T) {
	db, mock := newMock(t)
	store := NewTokenStore(db, testEncryptor(t))
	ctx := context.Background()

	created := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	cred := &domain.Credential{
		AccessToken:  "at-secret",
		RefreshToken: "rt-secret",
		TokenType:    "bearer",
		Scope:        "read write",
		ExpiresIn:    21600,
		CompanyID:    42,
		CreatedAt:    created,
	}

	blob := &captureBlob{}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credentials")).
		WithArgs(blob, "bearer", "read write", 21600, int64(42), created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Save(ctx, cred); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if regexp.MustCompile("at-secret|rt-secret").Match(blob.blob) {
		t.Fatal("secrets stored in plaintext")
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT secrets, token_type, scope, expires_in, company_id, created_at")).
		WillReturnRows(sqlmock.NewRows([]string{"secrets", "token_type", "scope", "expires_in", "company_id", "created_at"}).
			AddRow(blob.blob, "bearer", "read write", 21600, int64(42), created))

	got, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.AccessToken != "at-secret" || got.RefreshToken != "rt-secret" {
		t.Errorf("secrets not restored: %+v", got)
	}
	if got.Scope != "read write" || got.ExpiresIn != 21600 || got.CompanyID != 42 || !got.CreatedAt.Equal(created) {
		t.Errorf("metadata not restored: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTokenStore_Current_Empty(t *testing.T) {
	db, mock := newMock(t)
	store := NewTokenStore(db, testEncryptor(t))

	mock.ExpectQuery("SELECT secrets").
		WillReturnRows(sqlmock.NewRows([]string{"secrets", "token_type", "scope", "expires_in", "company_id", "created_at"}))

	_, err := store.Current(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_Current_WrongKey(t *testing.T) {
	db, mock := newMock(t)
	store := NewTokenStore(db, testEncryptor(t))

	other, err := secrets.NewEncryptorFromPassphrase("rotated passphrase")
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}
	blob, err := other.Encrypt(credentialSecrets{AccessToken: "at"})
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	mock.ExpectQuery("SELECT secrets").
		WillReturnRows(sqlmock.NewRows([]string{"secrets", "token_type", "scope", "expires_in", "company_id", "created_at"}).
			AddRow(blob, "bearer", "", 0, int64(0), time.Now()))

	_, err = store.Current(context.Background())
	if !errors.Is(err, secrets.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestTokenStore_SaveNil(t *testing.T) {
	db, _ := newMock(t)
	store := NewTokenStore(db, testEncryptor(t))

	if err := store.Save(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
