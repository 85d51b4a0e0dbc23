// ABOUTME: Free-text search endpoint of the REST client
// ABOUTME: Search does not compose with structured filters; it is its own request
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/harperreed/rolodex/models"
)

// Search runs a free-text search. The caller enforces the minimum length.
func (c *Client) Search(ctx context.Context, q string, limit int) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", q)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return searchWith(ctx, c, params)
}

func searchWith(ctx context.Context, c *Client, params url.Values) (*models.SearchResponse, error) {
	resp, _, err := get[*models.SearchResponse](ctx, c, "/search", params)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &models.SearchResponse{Query: params.Get("q")}
	}
	if resp.Results == nil {
		resp.Results = []models.SearchResult{}
	}
	return resp, nil
}
