package domain

import (
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrTokenInvalid", ErrTokenInvalid, "token invalid"},
		{"ErrCSRF", ErrCSRF, "invalid or replayed authorization state"},
		{"ErrMissingCode", ErrMissingCode, "authorization code missing"},
		{"ErrNoCredential", ErrNoCredential, "no credential stored, authorization required"},
		{"ErrInvalidPeriod", ErrInvalidPeriod, "invalid period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrCSRF,
		ErrMissingCode,
		ErrNoCredential,
		ErrInvalidPeriod,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestUpstreamAuthError(t *testing.T) {
	err := &UpstreamAuthError{StatusCode: 401, Body: `{"error":"invalid_grant"}`}
	if err.Error() != `upstream authorization failed (status 401): {"error":"invalid_grant"}` {
		t.Errorf("unexpected message: %s", err.Error())
	}

	noStatus := &UpstreamAuthError{Body: "access_denied"}
	if noStatus.Error() != "upstream authorization failed: access_denied" {
		t.Errorf("unexpected message: %s", noStatus.Error())
	}

	wrapped := fmt.Errorf("callback: %w", err)
	var target *UpstreamAuthError
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find UpstreamAuthError")
	}
	if target.StatusCode != 401 {
		t.Errorf("expected status 401, got %d", target.StatusCode)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := &net.DNSError{Err: "no such host", Name: "api.example.test"}
	err := &NetworkError{Op: "exchange", Err: inner}

	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) {
		t.Error("expected NetworkError to unwrap to DNSError")
	}
}

func TestUpstreamDataError(t *testing.T) {
	err := &UpstreamDataError{Reason: "missing payroll_statements"}
	if err.Error() != "unexpected upstream response: missing payroll_statements" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	withStatus := &UpstreamDataError{StatusCode: 500, Reason: "server error", Body: "oops"}
	if withStatus.Error() != "unexpected upstream response (status 500): server error: oops" {
		t.Errorf("unexpected message: %s", withStatus.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &NetworkError{Op: "fetch", Err: errors.New("reset")}, true},
		{"wrapped network", fmt.Errorf("fetch: %w", &NetworkError{Op: "fetch", Err: errors.New("reset")}), true},
		{"upstream auth", &UpstreamAuthError{StatusCode: 400}, false},
		{"data", &UpstreamDataError{Reason: "bad"}, false},
		{"csrf", ErrCSRF, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
