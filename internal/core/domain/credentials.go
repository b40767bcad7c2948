package domain

import "time"

// Credential is the token bundle returned by the provider's token endpoint.
// Only one credential is current at a time.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`

	// ExpiresIn is the lifetime in seconds reported by the provider.
	ExpiresIn int `json:"expires_in"`

	// CompanyID is set by freee when the user picked a company at consent.
	CompanyID int64 `json:"company_id,omitempty"`

	// CreatedAt is the issued-at time.
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt returns when the access token stops being valid.
// Zero when the provider did not report a lifetime.
func (c *Credential) ExpiresAt() time.Time {
	if c.ExpiresIn <= 0 {
		return time.Time{}
	}
	return c.CreatedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}

// IsExpired checks the access token lifetime against now.
func (c *Credential) IsExpired(now time.Time) bool {
	exp := c.ExpiresAt()
	if exp.IsZero() {
		return false
	}
	return !now.Before(exp)
}

// CredentialSummary provides a safe view without secrets
type CredentialSummary struct {
	TokenType  string     `json:"token_type"`
	Scope      string     `json:"scope"`
	HasRefresh bool       `json:"has_refresh_token"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToSummary converts a Credential to a CredentialSummary
func (c *Credential) ToSummary() *CredentialSummary {
	s := &CredentialSummary{
		TokenType:  c.TokenType,
		Scope:      c.Scope,
		HasRefresh: c.RefreshToken != "",
		CreatedAt:  c.CreatedAt,
	}
	if exp := c.ExpiresAt(); !exp.IsZero() {
		s.ExpiresAt = &exp
	}
	return s
}

// AuthorizationState is a pending authorization flow. The State value is
// round-tripped through the provider redirect and accepted once.
type AuthorizationState struct {
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// IsExpired checks if the state has passed its TTL
func (s *AuthorizationState) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
