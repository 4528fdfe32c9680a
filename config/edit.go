package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// UnknownKeyError is returned for keys that were never registered.
type UnknownKeyError struct {
	Key     string
	Closest string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %s, did you mean %s?", e.Key, e.Closest)
}

// choices restricts string fields to a fixed set of values.
var choices = map[string][]string{
	key.PlayerStreamingType:  {"http", "hls", "hls2", "hls4"},
	key.PlayerDefaultQuality: append([]string{""}, constant.QualityOptions...),
	key.IconsVariant:         icon.AvailableVariants(),
	key.LogsLevel:            {"panic", "fatal", "error", "warn", "info", "debug", "trace"},
}

// Keys returns every registered key, sorted.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}

// Lookup returns the field registered under name.
func Lookup(name string) (Field, error) {
	if field, ok := Default[name]; ok {
		return field, nil
	}

	closest := lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return Field{}, &UnknownKeyError{Key: name, Closest: closest}
}

// Parse converts raw command line values to the type of the field under name.
func Parse(name string, raw []string) (any, error) {
	field, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}

	switch field.Value.(type) {
	case string:
		value := strings.TrimSpace(raw[0])
		if allowed, ok := choices[name]; ok && !slices.Contains(allowed, value) {
			return nil, fmt.Errorf("invalid value %q for %s, expected one of: %s", value, name, strings.Join(allowed, ", "))
		}
		return value, nil
	case int:
		value, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		if value < 0 {
			return nil, fmt.Errorf("%s can not be negative", name)
		}
		return value, nil
	case bool:
		value, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return value, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s can not be set from the command line", name)
	}
}

// Set parses and applies raw to name, then persists the config file.
func Set(name string, raw []string) (any, error) {
	value, err := Parse(name, raw)
	if err != nil {
		return nil, err
	}

	viper.Set(name, value)
	return value, Save()
}

// Reset restores names, or every key when none are given, to their defaults and
// persists the config file.
func Reset(names ...string) error {
	if len(names) == 0 {
		names = Keys()
	}

	for _, name := range names {
		field, err := Lookup(name)
		if err != nil {
			return err
		}
		viper.Set(name, field.Value)
	}

	return Save()
}

// Path is where the config file lives.
func Path() string {
	return filepath.Join(where.Config(), constant.Kptv+".toml")
}

// Save writes the current configuration, creating the file when missing.
func Save() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}
