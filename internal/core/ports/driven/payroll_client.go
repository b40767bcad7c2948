package driven

import (
	"context"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// PayrollClient fetches payroll statements from the provider API.
type PayrollClient interface {
	// ListStatements returns the statements of a company for one period,
	// in the order the provider returned them.
	ListStatements(ctx context.Context, accessToken string, companyID string, period domain.Period) ([]domain.PayrollStatement, error)
}
