package driven

import (
	"context"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

// AuthURLParams are the values embedded in the provider authorization URL.
type AuthURLParams struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	State       string

	// Prompt is passed through when set (e.g. "select_company").
	Prompt string
}

// OAuthExchanger talks to the provider's authorization server.
type OAuthExchanger interface {
	// BuildAuthURL returns the URL to redirect the user to.
	BuildAuthURL(params AuthURLParams) string

	// Exchange trades an authorization code for a credential.
	// Errors are *domain.UpstreamAuthError when the provider rejected the
	// request, *domain.NetworkError on transport failure and
	// *domain.UpstreamDataError when the response could not be decoded.
	// Never retried: a code is single-use.
	Exchange(ctx context.Context, code, redirectURI, clientID, clientSecret string) (*domain.Credential, error)
}
