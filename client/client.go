// Package client implements the ONVO HTTP API: anonymous token
// issuance, account identification, login/logout, the password-reset
// endpoints, the current-user status check, user profiles, and the
// content-source index.
//
// Every call takes the bearer token explicitly; the client itself is
// stateless and safe for concurrent use.
package client

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://yamimanga.me/"

	// DefaultTimeout is the uniform per-request limit applied to all
	// HTTP calls.
	DefaultTimeout = 15 * time.Second

	// AppVersion and BuildNumber identify this client to the token
	// endpoint.
	AppVersion  = "1.0.0"
	BuildNumber = "1"
)

// Client talks to the ONVO API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the API rooted at baseURL. The base URL must
// end with a slash; endpoint paths are appended directly to it. A zero
// timeout selects DefaultTimeout and a nil logger discards debug output.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the API root this client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
