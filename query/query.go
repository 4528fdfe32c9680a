// Package query remembers search queries and suggests them back, most used first.
package query

import (
	"cmp"
	"strings"
	"sync"

	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// limit caps the remembered queries; the lowest ranked are dropped first.
const limit = 256

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

type ranking map[string]*record

var (
	mu    sync.Mutex
	store = gache.New[ranking](&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	})
	// matches memoizes SuggestMany until the next Remember.
	matches = map[string][]string{}
)

func load() ranking {
	r, expired, err := store.Get()
	if err != nil || expired || r == nil {
		return ranking{}
	}
	return r
}

// sorted orders records by rank, ties alphabetically.
func sorted(records []*record) []*record {
	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return cmp.Compare(a.Query, b.Query)
	})
	return records
}

// Remember records q, or raises its rank by weight when it is already known.
func Remember(q string, weight int) error {
	q = normalize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	r := load()
	if known, ok := r[q]; ok {
		known.Rank += weight
	} else {
		r[q] = &record{Rank: weight, Query: q}
	}

	if len(r) > limit {
		for _, dropped := range sorted(lo.Values(r))[limit:] {
			delete(r, dropped.Query)
		}
	}

	clear(matches)
	return store.Set(r)
}

// Suggest returns the best ranked known query matching q.
func Suggest(q string) mo.Option[string] {
	if s := SuggestMany(q); len(s) > 0 {
		return mo.Some(s[0])
	}
	return mo.None[string]()
}

// SuggestMany returns the known queries fuzzily matching q, highest rank first. It is
// empty when search.show_query_suggestions is off.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}
	q = normalize(q)

	mu.Lock()
	defer mu.Unlock()

	if s, ok := matches[q]; ok {
		return s
	}

	found := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})
	s := lo.Map(sorted(found), func(r *record, _ int) string {
		return r.Query
	})
	matches[q] = s
	return s
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
