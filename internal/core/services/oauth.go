package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// States issues and consumes CSRF state values.
	States *StateRegistry

	// TokenStore receives the credential after a successful exchange.
	TokenStore driven.TokenStore

	// Exchanger builds the authorization URL and redeems codes.
	Exchanger driven.OAuthExchanger

	// ClientID and ClientSecret are the registered app credentials.
	ClientID     string
	ClientSecret string

	// RedirectURI must match the URI registered with the provider.
	// Example: "http://localhost:10000/callback"
	RedirectURI string

	// Scopes requested at authorization.
	Scopes []string

	// Prompt is forwarded to the provider when set.
	// freee uses "select_company" to ask for company-level consent.
	Prompt string

	Logger *slog.Logger
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	states       *StateRegistry
	tokenStore   driven.TokenStore
	exchanger    driven.OAuthExchanger
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	prompt       string
	logger       *slog.Logger
	now          func() time.Time
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &oauthService{
		states:       cfg.States,
		tokenStore:   cfg.TokenStore,
		exchanger:    cfg.Exchanger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		scopes:       cfg.Scopes,
		prompt:       cfg.Prompt,
		logger:       logger,
		now:          time.Now,
	}
}

// Start issues a state and builds the authorization URL.
// Every call starts an independent attempt.
func (s *oauthService) Start(ctx context.Context) (*driving.StartResponse, error) {
	state, err := s.states.Issue(ctx)
	if err != nil {
		return nil, fmt.Errorf("issue state: %w", err)
	}

	authURL := s.exchanger.BuildAuthURL(driven.AuthURLParams{
		ClientID:    s.clientID,
		RedirectURI: s.redirectURI,
		Scopes:      s.scopes,
		State:       state.State,
		Prompt:      s.prompt,
	})

	s.logger.Info("authorization flow started",
		"state", stateFingerprint(state.State),
		"expires_at", state.ExpiresAt.Format(time.RFC3339))

	return &driving.StartResponse{
		AuthorizationURL: authURL,
		State:            state.State,
		ExpiresAt:        state.ExpiresAt,
	}, nil
}

// Callback handles the provider redirect.
// The state is consumed before the exchange, so a failed exchange can only
// be recovered by calling Start again.
func (s *oauthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if req.Error != "" {
		detail := req.Error
		if req.ErrorDescription != "" {
			detail = req.Error + ": " + req.ErrorDescription
		}
		s.logger.Warn("provider returned authorization error", "error", req.Error)
		return nil, &domain.UpstreamAuthError{Body: detail}
	}

	if strings.TrimSpace(req.Code) == "" {
		s.logger.Warn("callback without authorization code")
		return nil, domain.ErrMissingCode
	}

	ok, err := s.states.ValidateAndConsume(ctx, req.State)
	if err != nil {
		return nil, fmt.Errorf("validate state: %w", err)
	}
	if !ok {
		s.logger.Warn("security: rejected callback with unknown, expired or replayed state",
			"state", stateFingerprint(req.State))
		return nil, domain.ErrCSRF
	}

	cred, err := s.exchanger.Exchange(ctx, req.Code, s.redirectURI, s.clientID, s.clientSecret)
	if err != nil {
		s.logger.Error("authorization code exchange failed", "error", err)
		return nil, err
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = s.now()
	}

	if err := s.tokenStore.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}

	s.logger.Info("authorization completed", "scope", cred.Scope, "expires_in", cred.ExpiresIn)

	resp := &driving.CallbackResponse{
		Message: "freee authorization completed",
		Scope:   cred.Scope,
	}
	if exp := cred.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	return resp, nil
}
