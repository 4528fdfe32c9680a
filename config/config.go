package config

import (
	"errors"
	"strings"

	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/filesystem"
	"github.com/kptv-cli/kptv/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps "player.skip_step" to "player_skip_step".
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads kptv.toml from the config directory on top of the defaults. A missing
// file is not an error. KPTV_ variables override both.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Kptv)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetTypeByDefaultValue(true)
	for _, f := range fields {
		viper.SetDefault(f.Key, f.Value)
	}

	viper.SetEnvPrefix(constant.Kptv)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}
