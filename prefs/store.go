// Package prefs implements the persisted string-keyed preference store that holds
// per-item track choices and the global playback policy flags.
package prefs

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/log"
	"github.com/kptv-cli/kptv/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Store is a key-value store. A key may be present with a nil value, which callers
// read as an explicit "none".
type Store interface {
	Lookup(key string) (value any, ok bool)
	Set(key string, value any) error
	Delete(key string) error
	Keys() []string
}

// File is a Store persisted as a JSON object through gache.
type File struct {
	internal *gache.Cache[map[string]any]
	mu       sync.RWMutex
}

// NewFile opens the store at path. The file is created on the first write.
func NewFile(path string) *File {
	return &File{
		internal: gache.New[map[string]any](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

var (
	defaultStore     *File
	defaultStoreOnce sync.Once
)

// Default returns the store kept at where.Preferences().
func Default() *File {
	defaultStoreOnce.Do(func() {
		defaultStore = NewFile(where.Preferences())
	})
	return defaultStore
}

func (f *File) load() (map[string]any, error) {
	data, expired, err := f.internal.Get()
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if expired || data == nil {
		return make(map[string]any), nil
	}
	return data, nil
}

// Lookup misses when the file can not be read.
func (f *File) Lookup(key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.load()
	if err != nil {
		log.Warn(err)
		return nil, false
	}
	value, ok := data[key]
	return value, ok
}

// Set fails without writing when the file can not be read, so saved values are
// never replaced by a partial map.
func (f *File) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.internal.Set(data)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.internal.Set(data)
}

// Keys returns the stored keys in sorted order.
func (f *File) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.load()
	if err != nil {
		log.Warn(err)
		return nil
	}
	keys := lo.Keys(data)
	slices.Sort(keys)
	return keys
}

// String reads key as a string. Numbers and booleans are formatted; nil and absent
// values are None.
func String(store Store, key string) mo.Option[string] {
	value, ok := store.Lookup(key)
	if !ok || value == nil {
		return mo.None[string]()
	}

	switch v := value.(type) {
	case string:
		return mo.Some(v)
	case float64:
		return mo.Some(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return mo.Some(fmt.Sprint(v))
	}
}

// Bool reads key as a boolean. Strings such as "true" or "0" are parsed; anything
// else is None.
func Bool(store Store, key string) mo.Option[bool] {
	value, ok := store.Lookup(key)
	if !ok || value == nil {
		return mo.None[bool]()
	}

	switch v := value.(type) {
	case bool:
		return mo.Some(v)
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return mo.None[bool]()
		}
		return mo.Some(b)
	default:
		return mo.None[bool]()
	}
}
