package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kptv-cli/kptv/catalog"
	"github.com/samber/mo"
)

// MarkTime saves the playback offset of a video. season is 0 for movies.
func (c *Client) MarkTime(ctx context.Context, itemID int, time float64, video, season int) error {
	query := url.Values{
		"id":    {strconv.Itoa(itemID)},
		"time":  {strconv.Itoa(int(time))},
		"video": {strconv.Itoa(video)},
	}
	if season != 0 {
		query.Set("season", strconv.Itoa(season))
	}
	return c.get(ctx, "/v1/watching/marktime", query, nil)
}

// Toggle selects what ToggleWatched flips. Without a video the whole season (or item)
// is toggled; Status forces a value instead of flipping.
type Toggle struct {
	Video  mo.Option[int]
	Season mo.Option[int]
	Status mo.Option[catalog.WatchingStatus]
}

// ToggleWatched flips the watched mark and reports the new state.
func (c *Client) ToggleWatched(ctx context.Context, itemID int, t Toggle) (bool, error) {
	query := url.Values{"id": {strconv.Itoa(itemID)}}
	if v, ok := t.Video.Get(); ok {
		query.Set("video", strconv.Itoa(v))
	}
	if s, ok := t.Season.Get(); ok {
		query.Set("season", strconv.Itoa(s))
	}
	if s, ok := t.Status.Get(); ok {
		status := 0
		if s == catalog.Watched {
			status = 1
		}
		query.Set("status", strconv.Itoa(status))
	}

	var resp struct {
		Watched int `json:"watched"`
	}
	if err := c.get(ctx, "/v1/watching/toggle", query, &resp); err != nil {
		return false, err
	}
	return resp.Watched == 1, nil
}

// ToggleWatchlist subscribes to or unsubscribes from a serial and reports the new
// subscription state.
func (c *Client) ToggleWatchlist(ctx context.Context, itemID int) (bool, error) {
	var resp struct {
		Watching bool `json:"watching"`
	}
	query := url.Values{"id": {strconv.Itoa(itemID)}}
	if err := c.get(ctx, "/v1/watching/togglewatchlist", query, &resp); err != nil {
		return false, err
	}
	return resp.Watching, nil
}

type itemsResponse struct {
	Items []*catalog.Item `json:"items"`
}

// WatchingSerials lists serials in progress, or only subscribed ones.
func (c *Client) WatchingSerials(ctx context.Context, subscribed bool) ([]*catalog.Item, error) {
	var query url.Values
	if subscribed {
		query = url.Values{"subscribed": {"1"}}
	}
	var resp itemsResponse
	if err := c.get(ctx, "/v1/watching/serials", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// WatchingMovies lists movies in progress.
func (c *Client) WatchingMovies(ctx context.Context) ([]*catalog.Item, error) {
	var resp itemsResponse
	if err := c.get(ctx, "/v1/watching/movies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
