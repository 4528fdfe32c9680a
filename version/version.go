// Package version looks up the latest release and compares version strings.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/network"
	"github.com/kptv-cli/kptv/where"
	"github.com/metafates/gache"
)

const lookupTimeout = 5 * time.Second

var releasesURL = "https://api.github.com/repos/kptv-cli/kptv/releases/latest"

var latestCache = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   48 * time.Hour,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version. Answers are cached for two days.
func Latest() (string, error) {
	if cached, expired, err := latestCache.Get(); err == nil && !expired && cached != "" {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	latest, err := fetchLatest(ctx)
	if err != nil {
		return "", err
	}
	_ = latestCache.Set(latest)
	return latest, nil
}

func fetchLatest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("release lookup: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("release lookup: empty tag name")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}
