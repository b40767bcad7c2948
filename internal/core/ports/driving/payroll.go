package driving

import (
	"context"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// PayrollCheckService fetches the statements of a period and runs the checks.
type PayrollCheckService interface {
	Check(ctx context.Context, period domain.Period) (*CheckResult, error)
}

// CheckResult is the outcome of one check run. Errors is never nil.
// @Description Payroll check result
type CheckResult struct {
	Message string                   `json:"message" example:"エラーは見つかりませんでした。"`
	Errors  []domain.ValidationError `json:"errors"`
}
