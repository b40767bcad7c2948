package mocks

import (
	"context"
	"net/url"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure MockOAuthExchanger implements OAuthExchanger
var _ driven.OAuthExchanger = (*MockOAuthExchanger)(nil)

// MockOAuthExchanger is a testify mock for OAuthExchanger.
// BuildAuthURL is deterministic and not recorded.
type MockOAuthExchanger struct {
	mock.Mock
}

func (m *MockOAuthExchanger) BuildAuthURL(params driven.AuthURLParams) string {
	v := url.Values{
		"response_type": {"code"},
		"client_id":     {params.ClientID},
		"redirect_uri":  {params.RedirectURI},
		"scope":         {strings.Join(params.Scopes, " ")},
		"state":         {params.State},
	}
	if params.Prompt != "" {
		v.Set("prompt", params.Prompt)
	}
	return "https://auth.example.test/authorize?" + v.Encode()
}

func (m *MockOAuthExchanger) Exchange(ctx context.Context, code, redirectURI, clientID, clientSecret string) (*domain.Credential, error) {
	args := m.Called(ctx, code, redirectURI, clientID, clientSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

// MockPayrollClient is a testify mock for PayrollClient
type MockPayrollClient struct {
	mock.Mock
}

// Ensure MockPayrollClient implements PayrollClient
var _ driven.PayrollClient = (*MockPayrollClient)(nil)

func (m *MockPayrollClient) ListStatements(ctx context.Context, accessToken string, companyID string, period domain.Period) ([]domain.PayrollStatement, error) {
	args := m.Called(ctx, accessToken, companyID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollStatement), args.Error(1)
}
