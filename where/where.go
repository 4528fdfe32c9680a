// Package where resolves the directories and files kptv keeps its state in. Every
// directory is created on first use.
package where

import (
	"os"
	"path/filepath"

	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "KPTV_CONFIG_PATH"

// dir joins elems under base and makes sure the result exists.
func dir(base string, elems ...string) string {
	path := filepath.Join(append([]string{base}, elems...)...)
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// userDir returns the platform directory from resolve, or fallback when the platform
// has none.
func userDir(resolve func() (string, error), fallback string) string {
	base, err := resolve()
	if err != nil {
		return fallback
	}
	return base
}

func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return dir(custom)
	}
	return dir(lo.Must(os.UserConfigDir()), constant.Kptv)
}

func Cache() string {
	return dir(userDir(os.UserCacheDir, "cache"), constant.Kptv)
}

func Logs() string {
	return dir(Config(), "logs")
}

// Preferences holds saved track choices and the playback policy flags.
func Preferences() string {
	return filepath.Join(Config(), "preferences.json")
}

// Checkpoints holds the local copy of resume positions.
func Checkpoints() string {
	return filepath.Join(Config(), "checkpoints.json")
}

func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp holds player IPC sockets.
func Temp() string {
	return dir(os.TempDir(), constant.Kptv)
}
