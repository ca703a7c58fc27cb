package client

import (
	"context"
	"net/url"
	"strconv"
)

// UserProfile fetches the full public profile for userID. The bearer
// token is optional; anonymous callers get the public view.
func (c *Client) UserProfile(ctx context.Context, userID int, token string) (*UserProfileResponse, error) {
	query := url.Values{}
	query.Set("id", strconv.Itoa(userID))

	var resp UserProfileResponse
	if err := c.getJSON(ctx, "v2/users", query, token, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
