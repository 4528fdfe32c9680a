package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kptv-cli/kptv/catalog"
)

// Pagination describes a page of a list response.
type Pagination struct {
	Total   int `json:"total"`
	Current int `json:"current"`
	PerPage int `json:"perpage"`
}

// Item fetches one catalog item with its seasons or videos.
func (c *Client) Item(ctx context.Context, id int) (*catalog.Item, error) {
	var resp struct {
		Item *catalog.Item `json:"item"`
	}
	if err := c.get(ctx, fmt.Sprintf("/v1/items/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, errors.New("item missing from response")
	}
	return resp.Item, nil
}

// MediaLinks fetches the delivery sources and subtitles of a video.
func (c *Client) MediaLinks(ctx context.Context, videoID int) (*catalog.Links, error) {
	var links catalog.Links
	query := url.Values{"mid": {strconv.Itoa(videoID)}}
	if err := c.get(ctx, "/v1/items/media-links", query, &links); err != nil {
		return nil, err
	}
	return &links, nil
}

// Search looks items up by title.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]*catalog.Item, error) {
	var resp struct {
		Items []*catalog.Item `json:"items"`
	}
	query := url.Values{"q": {q}}
	if limit > 0 {
		query.Set("perpage", strconv.Itoa(limit))
	}
	if err := c.get(ctx, "/v1/items/search", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
