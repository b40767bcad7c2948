package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestStateStore_Save(t *testing.T) {
	db, mock := newMock(t)
	store := NewStateStore(db)

	now := time.Now()
	state := &domain.AuthorizationState{State: "abc", CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute)}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO oauth_states")).
		WithArgs("abc", state.CreatedAt, state.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStateStore_Save_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	store := NewStateStore(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO oauth_states")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := store.Save(context.Background(), &domain.AuthorizationState{State: "abc", CreatedAt: now, ExpiresAt: now.Add(time.Minute)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStateStore_Save_RejectsExpired(t *testing.T) {
	db, mock := newMock(t)
	store := NewStateStore(db)

	now := time.Now()
	for _, state := range []*domain.AuthorizationState{
		{State: "zero"},
		{State: "past", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)},
	} {
		if err := store.Save(context.Background(), state); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", state.State, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected query: %v", err)
	}
}

func TestStateStore_Consume(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantOK  bool
		wantErr bool
	}{
		{"pending", sqlmock.NewRows([]string{"state"}).AddRow("abc"), true, false},
		{"consumed, expired or unknown", sqlmock.NewRows([]string{"state"}), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			store := NewStateStore(db)

			mock.ExpectQuery(regexp.QuoteMeta("UPDATE oauth_states SET consumed = TRUE")).
				WithArgs("abc").
				WillReturnRows(tt.rows)

			ok, err := store.Consume(context.Background(), "abc")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Consume err = %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Consume = %v, want %v", ok, tt.wantOK)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestStateStore_Consume_Error(t *testing.T) {
	db, mock := newMock(t)
	store := NewStateStore(db)

	mock.ExpectQuery("UPDATE oauth_states").WillReturnError(errors.New("connection reset"))

	ok, err := store.Consume(context.Background(), "abc")
	if err == nil || ok {
		t.Errorf("expected error, got ok=%v err=%v", ok, err)
	}
}

func TestStateStore_Cleanup(t *testing.T) {
	db, mock := newMock(t)
	store := NewStateStore(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM oauth_states WHERE consumed OR expires_at < NOW()")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := store.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
