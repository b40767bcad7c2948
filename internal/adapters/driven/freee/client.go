// Package freee talks to the freee authorization server and payroll API.
package freee

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
	"github.com/custodia-labs/payroll-check/internal/obs"
)

// Default endpoints.
const (
	DefaultAuthURL  = "https://accounts.secure.freee.co.jp/public_api/authorize"
	DefaultTokenURL = "https://api.freee.co.jp/oauth/token"
	DefaultAPIURL   = "https://api.freee.co.jp"

	DefaultTimeout = 30 * time.Second
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 4 << 20

// Config holds endpoint settings shared by the freee clients.
type Config struct {
	AuthURL  string
	TokenURL string
	APIURL   string
	Timeout  time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// do sends req and reads the bounded body. Transport failures become
// *domain.NetworkError.
func do(client *http.Client, endpoint string, req *http.Request) (int, []byte, error) {
	started := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		obs.ObserveUpstream(endpoint, "network_error", started)
		return 0, nil, &domain.NetworkError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		obs.ObserveUpstream(endpoint, "network_error", started)
		return 0, nil, &domain.NetworkError{Op: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	obs.ObserveUpstream(endpoint, outcome(resp.StatusCode), started)
	return resp.StatusCode, body, nil
}

func outcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "ok"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "unauthorized"
	default:
		return fmt.Sprintf("status_%dxx", status/100)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
