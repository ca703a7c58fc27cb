package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
)

// HashPassword returns the MD5 hex digest the login and password-change
// endpoints expect. Plaintext passwords never go on the wire.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// GetToken mints an anonymous bearer token tied to the given device
// identity. This is the only call that goes out unauthenticated.
func (c *Client) GetToken(ctx context.Context, info DeviceInfo) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.postJSON(ctx, "token", "", TokenRequest{Info: info}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckInput identifies an account by free-text input (email, username,
// or phone number). The API requires a bearer token even in the
// anonymous state.
func (c *Client) CheckInput(ctx context.Context, input, token string) (*CheckInputResponse, error) {
	var resp CheckInputResponse
	if err := c.postJSON(ctx, "v2/auth/check", token, CheckInputRequest{Input: input}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges an account id and pre-hashed password for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest, token string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.postJSON(ctx, "v2/auth/login", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the session server-side. No response body is
// expected; callers clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "v2/auth/logout", token, nil, nil)
}

// AuthStatus fetches the current user for the given token. An HTTP 401
// comes back as ErrUnauthorized so callers can invalidate the session.
func (c *Client) AuthStatus(ctx context.Context, token string) (*AuthStatusResponse, error) {
	var resp AuthStatusResponse
	if err := c.getJSON(ctx, "v2/auth/status", nil, token, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
