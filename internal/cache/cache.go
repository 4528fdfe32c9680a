// Package cache keeps short-lived API responses on disk, one JSON file per key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/where"
	"github.com/samber/mo"
)

// TTL is the longest any entry is kept by CollectGarbage.
const TTL = 7 * 24 * time.Hour

// Cache stores values of one kind under where.Cache()/<name>.
type Cache[T any] struct {
	name     string
	lifetime time.Duration
	now      func() time.Time
}

// New returns a cache whose entries expire after lifetime.
func New[T any](name string, lifetime time.Duration) *Cache[T] {
	return &Cache[T]{name: name, lifetime: lifetime, now: time.Now}
}

// Key derives a file-safe key from parts, ignoring case and surrounding spaces.
func Key(parts ...string) string {
	normalized := strings.ToLower(strings.TrimSpace(strings.Join(parts, "\x00")))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

func (c *Cache[T]) path(key string) string {
	return filepath.Join(where.Cache(), c.name, key+".json")
}

// Get returns the stored value unless it is missing, expired or unreadable.
func (c *Cache[T]) Get(key string) mo.Option[T] {
	fs := filesystem.API()
	path := c.path(key)

	info, err := fs.Stat(path)
	if err != nil || c.now().Sub(info.ModTime()) > c.lifetime {
		return mo.None[T]()
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return mo.None[T]()
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		log.Warnf("cache %s: dropping unreadable entry: %v", c.name, err)
		_ = fs.Remove(path)
		return mo.None[T]()
	}
	return mo.Some(value)
}

// Set writes value through a temporary file, so readers never see half an entry.
func (c *Cache[T]) Set(key string, value T) error {
	fs := filesystem.API()
	path := c.path(key)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return fs.Rename(tmp, path)
}

// CollectGarbage removes entries older than TTL in the background.
func CollectGarbage() {
	go func() {
		fs := filesystem.API()
		cutoff := time.Now().Add(-TTL)
		_ = fs.Walk(where.Cache(), func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if info.ModTime().Before(cutoff) {
				_ = fs.Remove(path)
			}
			return nil
		})
	}()
}
