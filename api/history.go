package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/kptv-cli/kptv/catalog"
)

// HistoryEntry is one watched video of the account history.
type HistoryEntry struct {
	Time      float64        `json:"time"`
	Counter   int            `json:"counter"`
	FirstSeen int64          `json:"first_seen"`
	LastSeen  int64          `json:"last_seen"`
	Item      *catalog.Item  `json:"item"`
	Media     *catalog.Video `json:"media"`
}

// LastSeenAt converts the unix timestamp.
func (h HistoryEntry) LastSeenAt() time.Time {
	return time.Unix(h.LastSeen, 0)
}

// History returns a page of the account history, 1-based.
func (c *Client) History(ctx context.Context, page, perPage int) ([]HistoryEntry, Pagination, error) {
	var resp struct {
		History    []HistoryEntry `json:"history"`
		Pagination Pagination     `json:"pagination"`
	}
	query := url.Values{
		"page":    {strconv.Itoa(max(page, 1))},
		"perpage": {strconv.Itoa(max(perPage, 1))},
	}
	if err := c.get(ctx, "/v1/history", query, &resp); err != nil {
		return nil, Pagination{}, err
	}
	return resp.History, resp.Pagination, nil
}
