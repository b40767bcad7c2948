package driving

import (
	"context"
	"time"
)

// OAuthService runs the authorization-code flow against the payroll provider.
// Start and Callback are independent transitions; each Start begins a fresh
// attempt with its own state.
type OAuthService interface {
	// Start issues a state and returns the provider authorization URL.
	Start(ctx context.Context) (*StartResponse, error)

	// Callback validates the returned state, exchanges the code and stores
	// the credential.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)
}

// StartResponse contains the authorization URL and state.
// @Description Authorization flow start
type StartResponse struct {
	// AuthorizationURL is the URL to redirect the user to.
	AuthorizationURL string `json:"authorization_url" example:"https://accounts.secure.freee.co.jp/public_api/authorize?client_id=..."`

	// State is the CSRF token that will be returned in the callback.
	State string `json:"state" example:"9f2c..."`

	// ExpiresAt is when the state stops being accepted.
	ExpiresAt time.Time `json:"expires_at"`
}

// CallbackRequest represents the query parameters of the provider redirect.
type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty"`
}

// CallbackResponse contains the result of a successful callback.
// @Description Result of a completed authorization
type CallbackResponse struct {
	Message   string     `json:"message" example:"freee authorization completed"`
	Scope     string     `json:"scope" example:"read write"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
