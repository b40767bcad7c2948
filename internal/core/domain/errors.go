package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the operator token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the operator token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrCSRF indicates the callback state was unknown, expired or replayed.
	// Never retried: the flow has to start over at /auth.
	ErrCSRF = errors.New("invalid or replayed authorization state")

	// ErrMissingCode indicates the callback carried no authorization code
	ErrMissingCode = errors.New("authorization code missing")

	// ErrNoCredential indicates no credential was ever stored
	ErrNoCredential = errors.New("no credential stored, authorization required")

	// ErrInvalidPeriod indicates year/month could not be parsed
	ErrInvalidPeriod = errors.New("invalid period")
)

// UpstreamAuthError is returned when the provider rejects a code, client
// credentials or an access token. Recovery is restarting the authorization flow.
type UpstreamAuthError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamAuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream authorization failed: %s", e.Body)
	}
	return fmt.Sprintf("upstream authorization failed (status %d): %s", e.StatusCode, e.Body)
}

// NetworkError wraps a transport failure talking to the provider.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamDataError is returned when a provider response does not have the
// expected shape. StatusCode is 0 when the response was 2xx.
type UpstreamDataError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *UpstreamDataError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unexpected upstream response (status %d): %s: %s", e.StatusCode, e.Reason, e.Body)
	}
	return fmt.Sprintf("unexpected upstream response: %s", e.Reason)
}

// IsRetryable reports whether the caller may retry the failed operation.
// Only transport failures qualify; an authorization code is single-use.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
