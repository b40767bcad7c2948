package freee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure PayrollClient implements the interface.
var _ driven.PayrollClient = (*PayrollClient)(nil)

// PayrollClient reads payroll statements from the freee HR API.
type PayrollClient struct {
	httpClient *http.Client
	apiURL     string
}

// NewPayrollClient creates a new freee payroll client.
func NewPayrollClient(cfg Config) *PayrollClient {
	cfg = cfg.withDefaults()
	return &PayrollClient{
		httpClient: cfg.HTTPClient,
		apiURL:     cfg.APIURL,
	}
}

// ListStatements fetches every statement of period for companyID.
func (c *PayrollClient) ListStatements(ctx context.Context, accessToken, companyID string, period domain.Period) ([]domain.PayrollStatement, error) {
	params := url.Values{
		"company_id":   {companyID},
		"target_year":  {strconv.Itoa(period.Year)},
		"target_month": {strconv.Itoa(period.Month)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/api/1/payroll_statements?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	status, body, err := do(c.httpClient, "payroll_statements", req)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, &domain.UpstreamAuthError{StatusCode: status, Body: string(body)}
	case !isSuccess(status):
		return nil, &domain.UpstreamDataError{StatusCode: status, Body: string(body), Reason: "list payroll statements"}
	}

	var payload struct {
		Statements *[]domain.PayrollStatement `json:"payroll_statements"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.UpstreamDataError{Body: string(body), Reason: "decode payroll statements: " + err.Error()}
	}
	if payload.Statements == nil {
		return nil, &domain.UpstreamDataError{Body: string(body), Reason: "response has no payroll_statements"}
	}
	return *payload.Statements, nil
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
