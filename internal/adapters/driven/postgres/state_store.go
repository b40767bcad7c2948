package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// StateStore implements driven.StateStore using PostgreSQL.
type StateStore struct {
	db *sql.DB
}

// NewStateStore creates a new PostgreSQL-backed state store.
func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Save stores a new pending state.
func (s *StateStore) Save(ctx context.Context, state *domain.AuthorizationState) error {
	if !state.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("%w: state already expired", domain.ErrInvalidInput)
	}

	query := `
		INSERT INTO oauth_states (state, created_at, expires_at, consumed)
		VALUES ($1, $2, $3, FALSE)
	`

	_, err := s.db.ExecContext(ctx, query, state.State, state.CreatedAt, state.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: duplicate state", domain.ErrInvalidInput)
		}
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume marks the state consumed. The single conditional UPDATE makes
// concurrent callers race on one row lock, so only one sees a row back.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	query := `
		UPDATE oauth_states
		SET consumed = TRUE
		WHERE state = $1 AND NOT consumed AND expires_at > NOW()
		RETURNING state
	`

	var got string
	err := s.db.QueryRowContext(ctx, query, state).Scan(&got)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return true, nil
}

// Cleanup removes consumed and expired states.
func (s *StateStore) Cleanup(ctx context.Context) error {
	query := `DELETE FROM oauth_states WHERE consumed OR expires_at < NOW()`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cleanup oauth states: %w", err)
	}
	return nil
}

// Ping checks if the database is reachable
func (s *StateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
