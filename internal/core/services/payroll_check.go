package services

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driving"
)

// Ensure payrollCheckService implements PayrollCheckService
var _ driving.PayrollCheckService = (*payrollCheckService)(nil)

const (
	messageNoErrors    = "エラーは見つかりませんでした。"
	messageErrorsFound = "エラーが見つかりました。"
)

// statementSource is satisfied by *StatementFetcher.
type statementSource interface {
	Fetch(ctx context.Context, period domain.Period) ([]domain.PayrollStatement, error)
}

type payrollCheckService struct {
	fetcher statementSource
	logger  *slog.Logger
}

// NewPayrollCheckService creates a service that fetches then validates.
func NewPayrollCheckService(fetcher statementSource, logger *slog.Logger) driving.PayrollCheckService {
	if logger == nil {
		logger = slog.Default()
	}
	return &payrollCheckService{fetcher: fetcher, logger: logger}
}

// Check fetches the statements of period and validates them.
func (s *payrollCheckService) Check(ctx context.Context, period domain.Period) (*driving.CheckResult, error) {
	statements, err := s.fetcher.Fetch(ctx, period)
	if err != nil {
		return nil, err
	}

	errs := Validate(statements)
	s.logger.Info("payroll check finished",
		"period", period.Key(),
		"statements", len(statements),
		"violations", len(errs))

	msg := messageNoErrors
	if len(errs) > 0 {
		msg = messageErrorsFound
	}
	return &driving.CheckResult{Message: msg, Errors: errs}, nil
}
