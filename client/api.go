package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// APIError represents a failed ONVO API call: transport failures,
// non-2xx statuses, and well-formed payloads that encode a failure.
type APIError struct {
	StatusCode int
	Message    string
	ErrorType  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.StatusCode != 0 {
			return fmt.Sprintf("onvo api error: %s (code: %d)", e.Message, e.StatusCode)
		}
		return fmt.Sprintf("onvo api error: %s", e.Message)
	}
	return fmt.Sprintf("onvo api error: status code %d", e.StatusCode)
}

// ErrUnauthorized is returned when the server rejects the bearer token
// with HTTP 401. Callers treat it as "session expired" and clear the
// persisted session.
var ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized, Message: "session expired or invalid token", ErrorType: "unauthorized"}

// errorBody is the error envelope several endpoints share.
type errorBody struct {
	Error   string `json:"error,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// postJSON sends a JSON POST to path relative to the base URL. A
// non-empty token is attached as a bearer credential. The response body
// is decoded into out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

// getJSON sends a GET to path with optional query parameters. An empty
// token sends the request unauthenticated.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	urlStr := c.baseURL + path
	if len(query) > 0 {
		urlStr += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("onvo api call",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope errorBody
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Message = envelope.Message
			if apiErr.Message == "" {
				apiErr.Message = envelope.Error
			}
			apiErr.ErrorType = envelope.Type
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}
	return nil
}

// getRaw fetches path and returns the raw response body. Used by the
// source index, whose decoding is deliberately lenient.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	return body, nil
}
