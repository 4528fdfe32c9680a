// Package api is a client of the media API: catalog items, media links, watching
// marks, watch lists, search and history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kptv-cli/kptv/auth"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/network"
	"github.com/spf13/viper"
)

// TokenSource returns the bearer token of a request.
type TokenSource func() (string, error)

// Error is a failed API call: a non-2xx response or an error status in the body.
type Error struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the API at a base URL.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
	timeout time.Duration
}

// New returns a client for baseURL using the shared network.Client.
func New(baseURL string, token TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    network.Client,
		timeout: timeout,
	}
}

// NewFromConfig builds a client from api.base_url, api.timeout and the stored token.
func NewFromConfig() *Client {
	return New(
		viper.GetString(key.APIBaseURL),
		auth.Token,
		time.Duration(viper.GetInt(key.APITimeout))*time.Second,
	)
}

// envelope carries the status and error fields every response has.
type envelope struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := log.With(log.Fields{"path": path, "query": query.Encode()})
	logger.Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warnf("api request failed: %v", err)
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", path, err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warnf("api responded %d", resp.StatusCode)
		return &Error{Path: path, StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Status != 0 && (env.Status < 200 || env.Status > 299) {
		logger.Warnf("api reported status %d", env.Status)
		return &Error{Path: path, StatusCode: env.Status, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}
