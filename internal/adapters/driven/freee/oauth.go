package freee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
)

// Ensure OAuthClient implements the interface.
var _ driven.OAuthExchanger = (*OAuthClient)(nil)

// OAuthClient builds freee authorization URLs and redeems codes.
type OAuthClient struct {
	httpClient *http.Client
	authURL    string
	tokenURL   string
}

// NewOAuthClient creates a new freee OAuth client.
func NewOAuthClient(cfg Config) *OAuthClient {
	cfg = cfg.withDefaults()
	return &OAuthClient{
		httpClient: cfg.HTTPClient,
		authURL:    cfg.AuthURL,
		tokenURL:   cfg.TokenURL,
	}
}

// BuildAuthURL constructs the freee authorization URL.
func (c *OAuthClient) BuildAuthURL(p driven.AuthURLParams) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {p.ClientID},
		"redirect_uri":  {p.RedirectURI},
		"scope":         {strings.Join(p.Scopes, " ")},
		"state":         {p.State},
	}
	if p.Prompt != "" {
		params.Set("prompt", p.Prompt)
	}

	sep := "?"
	if strings.Contains(c.authURL, "?") {
		sep = "&"
	}
	return c.authURL + sep + params.Encode()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
	CompanyID    int64  `json:"company_id"`
}

// Exchange redeems an authorization code for a credential. It is never
// retried: freee accepts a code once.
func (c *OAuthClient) Exchange(ctx context.Context, code, redirectURI, clientID, clientSecret string) (*domain.Credential, error) {
	params := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"redirect_uri":  {redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	status, body, err := do(c.httpClient, "token", req)
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		return nil, &domain.UpstreamAuthError{StatusCode: status, Body: string(body)}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, &domain.UpstreamDataError{Body: string(body), Reason: "decode token response: " + err.Error()}
	}
	if tokenResp.AccessToken == "" {
		return nil, &domain.UpstreamDataError{Body: string(body), Reason: "token response has no access_token"}
	}

	cred := &domain.Credential{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
		Scope:        tokenResp.Scope,
		ExpiresIn:    tokenResp.ExpiresIn,
		CompanyID:    tokenResp.CompanyID,
	}
	if tokenResp.CreatedAt > 0 {
		cred.CreatedAt = unixTime(tokenResp.CreatedAt)
	}
	return cred, nil
}
