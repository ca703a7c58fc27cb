package client

import "context"

// RequestResetCode asks the server to email a reset code to the account
// identified by userID. An account without a recovery email answers
// with error "email_not_found" inside a successful HTTP response.
func (c *Client) RequestResetCode(ctx context.Context, userID, token string) (*ResetCodeResponse, error) {
	var resp ResetCodeResponse
	if err := c.postJSON(ctx, "v2/auth/reset/request", token, ResetCodeRequest{ID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitResetCode verifies the emailed code.
func (c *Client) SubmitResetCode(ctx context.Context, code, token string) (*ResetVerifyResponse, error) {
	var resp ResetVerifyResponse
	if err := c.postJSON(ctx, "v2/auth/reset/submit", token, ResetCodeSubmit{Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword sets a new password after a verified reset code.
// hashedPassword carries the MD5 hex digest (see HashPassword). On
// success the response includes the refreshed session user.
func (c *Client) ChangePassword(ctx context.Context, hashedPassword, token string) (*PasswordChangeResponse, error) {
	var resp PasswordChangeResponse
	if err := c.postJSON(ctx, "v2/auth/reset/change", token, PasswordChangeRequest{Password: hashedPassword}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
