package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/kptv-cli/kptv/catalog"
)

// Folder is a bookmark folder of the account.
type Folder struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Bookmarks lists the bookmark folders.
func (c *Client) Bookmarks(ctx context.Context) ([]Folder, error) {
	var resp struct {
		Items []Folder `json:"items"`
	}
	if err := c.get(ctx, "/v1/bookmarks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// BookmarkItems returns a page of the items in a folder, 1-based.
func (c *Client) BookmarkItems(ctx context.Context, folderID, page int) (Folder, []*catalog.Item, Pagination, error) {
	var resp struct {
		Folder     Folder          `json:"folder"`
		Items      []*catalog.Item `json:"items"`
		Pagination Pagination      `json:"pagination"`
	}
	query := url.Values{"page": {strconv.Itoa(max(page, 1))}}
	if err := c.get(ctx, "/v1/bookmarks/"+strconv.Itoa(folderID), query, &resp); err != nil {
		return Folder{}, nil, Pagination{}, err
	}
	return resp.Folder, resp.Items, resp.Pagination, nil
}

// CollectionSort orders collection listings, newest first.
type CollectionSort string

const (
	ByCreated  CollectionSort = "created"
	ByWatchers CollectionSort = "watchers"
	ByViews    CollectionSort = "views"
)

// CollectionSorts are the accepted orders.
var CollectionSorts = []CollectionSort{ByCreated, ByWatchers, ByViews}

// Collection is an editorial selection of items.
type Collection struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Watchers int    `json:"watchers"`
	Views    int    `json:"views"`
	Created  int64  `json:"created"`
}

// Collections returns a page of collections whose title contains title, which may be
// empty.
func (c *Client) Collections(ctx context.Context, title string, sort CollectionSort, page int) ([]Collection, Pagination, error) {
	var resp struct {
		Items      []Collection `json:"items"`
		Pagination Pagination   `json:"pagination"`
	}
	if sort == "" {
		sort = ByCreated
	}
	query := url.Values{
		"sort": {string(sort) + "-"},
		"page": {strconv.Itoa(max(page, 1))},
	}
	if title != "" {
		query.Set("title", title)
	}
	if err := c.get(ctx, "/v1/collections", query, &resp); err != nil {
		return nil, Pagination{}, err
	}
	return resp.Items, resp.Pagination, nil
}

// CollectionItems returns a collection with its items.
func (c *Client) CollectionItems(ctx context.Context, id int) (Collection, []*catalog.Item, error) {
	var resp struct {
		Collection *Collection     `json:"collection"`
		Items      []*catalog.Item `json:"items"`
	}
	if err := c.get(ctx, "/v1/collections/view", url.Values{"id": {strconv.Itoa(id)}}, &resp); err != nil {
		return Collection{}, nil, err
	}
	if resp.Collection == nil {
		return Collection{}, nil, errors.New("collection missing from response")
	}
	return *resp.Collection, resp.Items, nil
}

// Channel is a live TV channel.
type Channel struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Name   string `json:"name"`
	Stream string `json:"stream"`
}

// Channels lists the live TV channels.
func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	var resp struct {
		Channels []Channel `json:"channels"`
	}
	if err := c.get(ctx, "/v1/tv", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Channels, nil
}

// Similar lists items related to an item.
func (c *Client) Similar(ctx context.Context, itemID int) ([]*catalog.Item, error) {
	var resp itemsResponse
	if err := c.get(ctx, "/v1/items/similar", url.Values{"id": {strconv.Itoa(itemID)}}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ItemsQuery filters a category listing. Zero fields are left to the server.
type ItemsQuery struct {
	Type  string
	Genre int
	Sort  string
	Page  int
}

// Items returns a page of a category listing.
func (c *Client) Items(ctx context.Context, q ItemsQuery) ([]*catalog.Item, Pagination, error) {
	var resp struct {
		Items      []*catalog.Item `json:"items"`
		Pagination Pagination      `json:"pagination"`
	}
	query := url.Values{"page": {strconv.Itoa(max(q.Page, 1))}}
	if q.Type != "" {
		query.Set("type", q.Type)
	}
	if q.Genre > 0 {
		query.Set("genre", strconv.Itoa(q.Genre))
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if err := c.get(ctx, "/v1/items", query, &resp); err != nil {
		return nil, Pagination{}, err
	}
	return resp.Items, resp.Pagination, nil
}
