package client

import (
	"context"

	"github.com/onvo-app/onvo-cli/internal/source"
)

// FetchSources retrieves the content-source index. Transport failures
// are returned; a payload that fails to decode yields an empty list
// (logged, not returned) per the lenient decoding contract.
func (c *Client) FetchSources(ctx context.Context) ([]source.Source, error) {
	body, err := c.getRaw(ctx, "source")
	if err != nil {
		return nil, err
	}
	return source.DecodeList(body, c.logger), nil
}
