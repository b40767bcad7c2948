package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// statementsOp names the fetch in errors raised here.
const statementsOp = "payroll_statements"

// StatementFetcher retrieves payroll statements with the current credential.
type StatementFetcher struct {
	tokenStore driven.TokenStore
	client     driven.PayrollClient
	companyID  string
	logger     *slog.Logger
	group      singleflight.Group
}

// StatementFetcherConfig holds dependencies for a StatementFetcher.
type StatementFetcherConfig struct {
	TokenStore driven.TokenStore
	Client     driven.PayrollClient

	// CompanyID scopes every request to one organization.
	CompanyID string

	Logger *slog.Logger
}

// NewStatementFetcher creates a new StatementFetcher.
func NewStatementFetcher(cfg StatementFetcherConfig) *StatementFetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementFetcher{
		tokenStore: cfg.TokenStore,
		client:     cfg.Client,
		companyID:  cfg.CompanyID,
		logger:     logger,
	}
}

// Fetch returns the statements of period.
// Fails with domain.ErrNoCredential before any upstream call when no
// credential has been stored. Concurrent calls for the same period share
// one upstream request. Each caller waits only on its own ctx: a caller
// that gives up gets a NetworkError while the shared request continues
// for the others.
func (f *StatementFetcher) Fetch(ctx context.Context, period domain.Period) ([]domain.PayrollStatement, error) {
	cred, err := f.tokenStore.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoCredential
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if cred.AccessToken == "" {
		return nil, domain.ErrNoCredential
	}

	key := period.Key() + ":" + cred.AccessToken
	// Detached from the first caller; the client timeout bounds the request.
	flight := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (interface{}, error) {
		return f.client.ListStatements(flight, cred.AccessToken, f.companyID, period)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, &domain.NetworkError{Op: statementsOp, Err: ctx.Err()}
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	statements := res.Val.([]domain.PayrollStatement)
	f.logger.Debug("payroll statements fetched",
		"period", period.Key(),
		"count", len(statements),
		"shared", res.Shared)

	// Callers sharing a flight must not alias one backing array.
	out := make([]domain.PayrollStatement, len(statements))
	copy(out, statements)
	return out, nil
}
